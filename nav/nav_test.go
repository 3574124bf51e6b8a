package nav

import "testing"

func TestLocationStripsQuery(t *testing.T) {
	router := NewRouter(RouteLogin)
	router.Redirect(RouteCompleteProfile + "?email=ada%40example.com&token=tok")

	if got := router.Location(); got != RouteCompleteProfile {
		t.Fatalf("location = %q, want %q", got, RouteCompleteProfile)
	}
	if got := router.FullLocation(); got != RouteCompleteProfile+"?email=ada%40example.com&token=tok" {
		t.Fatalf("full location = %q", got)
	}
}

func TestRedirectToSamePathIsNoOp(t *testing.T) {
	router := NewRouter(RouteLogin)

	fired := 0
	router.Subscribe(func(string) { fired++ })

	router.Redirect(RouteLogin)
	if fired != 0 {
		t.Fatalf("subscriber fired %d times for a same-path redirect", fired)
	}

	router.Redirect(RouteLogin + "?reason=expired")
	if fired != 0 {
		t.Fatalf("subscriber fired %d times, query must not defeat loop prevention", fired)
	}
}

func TestSubscribersObserveChanges(t *testing.T) {
	router := NewRouter(RouteLogin)

	var seen []string
	router.Subscribe(func(path string) { seen = append(seen, path) })

	router.Redirect(RouteWardrobe)
	router.Redirect(RouteProfile)

	if len(seen) != 2 || seen[0] != RouteWardrobe || seen[1] != RouteProfile {
		t.Fatalf("seen = %v", seen)
	}
	if router.Location() != RouteProfile {
		t.Fatalf("location = %q", router.Location())
	}
}

func TestNewRouterDefaultsToHome(t *testing.T) {
	if got := NewRouter("").Location(); got != RouteHome {
		t.Fatalf("location = %q, want %q", got, RouteHome)
	}
}
