package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/fitroom/fitroom/apperr"
	"github.com/fitroom/fitroom/credstore"
	"github.com/fitroom/fitroom/gateway"
	"github.com/fitroom/fitroom/validate"
)

// ClothAPI wraps the wardrobe and sharing operations.
type ClothAPI struct {
	caller
}

// NewClothAPI builds the wardrobe wrapper.
func NewClothAPI(gw *gateway.Client, store credstore.Store, log *slog.Logger) *ClothAPI {
	return &ClothAPI{caller: newCaller(gw, store, log)}
}

// Upload submits a clothing photo with its metadata blob as multipart
// form data. The multipart writer owns the content-type header so the
// boundary matches the encoded body; the gateway attaches the bearer
// credential as usual.
func (c *ClothAPI) Upload(ctx context.Context, filename string, file io.Reader, data ClothData) (Cloth, error) {
	var created Cloth
	if err := validate.Required("typ", data.Typ); err != nil {
		return created, err
	}
	if err := validate.Required("size", data.Size); err != nil {
		return created, err
	}
	if err := validate.Required("size_metrics", data.SizeMetrics); err != nil {
		return created, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return created, transportError("failed to upload cloth", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return created, transportError("failed to upload cloth", err)
	}

	meta, err := json.Marshal(data)
	if err != nil {
		return created, transportError("failed to upload cloth", err)
	}
	if err := writer.WriteField("data", string(meta)); err != nil {
		return created, transportError("failed to upload cloth", err)
	}
	if err := writer.Close(); err != nil {
		return created, transportError("failed to upload cloth", err)
	}

	req, err := c.gw.NewRequest(ctx, http.MethodPost, "/upload", &buf)
	if err != nil {
		return created, transportError("failed to upload cloth", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.send(req, "failed to upload cloth")
	if err != nil {
		return created, err
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &created); err != nil {
			return created, apperr.New(apperr.CodeBadResponse, 0, "invalid response from server", err)
		}
	}
	return created, nil
}

// Outfits fetches the caller's wardrobe grouped by category.
func (c *ClothAPI) Outfits(ctx context.Context) (Outfits, error) {
	var outfits Outfits
	body, err := c.get(ctx, "/outfits", "failed to fetch outfits")
	if err != nil {
		return outfits, err
	}
	if err := json.Unmarshal(body, &outfits); err != nil {
		return outfits, apperr.New(apperr.CodeBadResponse, 0, "invalid response from server", err)
	}
	return outfits, nil
}

// SharedWardrobeItems fetches another user's shared wardrobe, keyed by
// category, with the viewer's favorite flags.
func (c *ClothAPI) SharedWardrobeItems(ctx context.Context, ownerUsername string) (map[string][]SharedItem, error) {
	if err := validate.Required("ownerUsername", ownerUsername); err != nil {
		return nil, err
	}
	path := "/shared-wardrobe-items?ownerUsername=" + url.QueryEscape(ownerUsername)
	body, err := c.get(ctx, path, "failed to fetch shared wardrobe items")
	if err != nil {
		return nil, err
	}
	items := map[string][]SharedItem{}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, apperr.New(apperr.CodeBadResponse, 0, "invalid response from server", err)
	}
	return items, nil
}

// ShareWardrobe grants username access to the caller's wardrobe.
func (c *ClothAPI) ShareWardrobe(ctx context.Context, username string) (string, error) {
	if err := validate.Required("username", username); err != nil {
		return "", err
	}
	body, err := c.postJSON(ctx, "/share-wardrobe", map[string]string{"username": username},
		"failed to share wardrobe")
	if err != nil {
		return "", err
	}
	return stringBody(body), nil
}

// UnshareWardrobe revokes username's access to the caller's wardrobe.
func (c *ClothAPI) UnshareWardrobe(ctx context.Context, username string) (string, error) {
	if err := validate.Required("username", username); err != nil {
		return "", err
	}
	body, err := c.postJSON(ctx, "/unshare-wardrobe", map[string]string{"username": username},
		"failed to unshare wardrobe")
	if err != nil {
		return "", err
	}
	return stringBody(body), nil
}

// SharedWardrobes lists wardrobes shared with the caller.
func (c *ClothAPI) SharedWardrobes(ctx context.Context) ([]SharedWardrobe, error) {
	return c.shareList(ctx, "/shared-wardrobes", "failed to fetch shared wardrobes")
}

// WardrobesSharedByMe lists wardrobes the caller has shared out.
func (c *ClothAPI) WardrobesSharedByMe(ctx context.Context) ([]SharedWardrobe, error) {
	return c.shareList(ctx, "/wardrobes-shared-by-me", "failed to fetch wardrobes shared by you")
}

func (c *ClothAPI) shareList(ctx context.Context, path, fallback string) ([]SharedWardrobe, error) {
	body, err := c.get(ctx, path, fallback)
	if err != nil {
		return nil, err
	}
	var shares []SharedWardrobe
	if err := json.Unmarshal(body, &shares); err != nil {
		return nil, apperr.New(apperr.CodeBadResponse, 0, "invalid response from server", err)
	}
	return shares, nil
}

// LikeCloth records a like on a shared item. The bearer header is also
// attached here explicitly: the operation refuses to run logged out
// instead of sending an anonymous request.
func (c *ClothAPI) LikeCloth(ctx context.Context, clothID string) (MessageResult, error) {
	return c.preference(ctx, "/like-cloth", clothID, "failed to like clothing item")
}

// DislikeCloth records a dislike on a shared item.
func (c *ClothAPI) DislikeCloth(ctx context.Context, clothID string) (MessageResult, error) {
	return c.preference(ctx, "/dislike-cloth", clothID, "failed to dislike clothing item")
}

func (c *ClothAPI) preference(ctx context.Context, path, clothID, fallback string) (MessageResult, error) {
	var result MessageResult
	if err := validate.Required("clothId", clothID); err != nil {
		return result, err
	}
	token, err := c.requireToken(ctx)
	if err != nil {
		return result, err
	}

	encoded, err := json.Marshal(map[string]string{"clothId": clothID})
	if err != nil {
		return result, transportError(fallback, err)
	}
	req, err := c.gw.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(encoded))
	if err != nil {
		return result, transportError(fallback, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	body, err := c.send(req, fallback)
	if err != nil {
		return result, err
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return result, apperr.New(apperr.CodeBadResponse, 0, "invalid response from server", err)
		}
	}
	return result, nil
}

// FavoriteCloth marks a shared item as a favorite.
func (c *ClothAPI) FavoriteCloth(ctx context.Context, clothID string) (MessageResult, error) {
	return c.preference(ctx, "/favorite-cloth", clothID, "failed to favorite clothing item")
}

// UnfavoriteCloth removes a favorite mark.
func (c *ClothAPI) UnfavoriteCloth(ctx context.Context, clothID string) (MessageResult, error) {
	return c.preference(ctx, "/unfavorite-cloth", clothID, "failed to unfavorite clothing item")
}

// LikeCombination votes up a recommended outfit combination.
func (c *ClothAPI) LikeCombination(ctx context.Context, code string) (string, error) {
	return c.combination(ctx, "/like-combination", code, "failed to like combination")
}

// DislikeCombination votes down a recommended outfit combination.
func (c *ClothAPI) DislikeCombination(ctx context.Context, code string) (string, error) {
	return c.combination(ctx, "/dislike-combination", code, "failed to dislike combination")
}

func (c *ClothAPI) combination(ctx context.Context, path, code, fallback string) (string, error) {
	if err := validate.Required("code", code); err != nil {
		return "", err
	}
	body, err := c.postJSON(ctx, path, map[string]string{"code": code}, fallback)
	if err != nil {
		return "", err
	}
	return stringBody(body), nil
}

// WardrobeOverview loads the caller's outfits and both share lists
// concurrently and joins the results. Failures from the concurrent legs
// are combined rather than the first one winning; the caller filters
// 401s, which the gateway has already handled.
type WardrobeOverview struct {
	Outfits      Outfits
	SharedWithMe []SharedWardrobe
	SharedByMe   []SharedWardrobe
}

// Overview issues the three wardrobe reads concurrently.
func (c *ClothAPI) Overview(ctx context.Context) (WardrobeOverview, error) {
	var overview WardrobeOverview
	var outfitsErr, withMeErr, byMeErr error

	done := make(chan struct{}, 3)
	go func() {
		overview.Outfits, outfitsErr = c.Outfits(ctx)
		done <- struct{}{}
	}()
	go func() {
		overview.SharedWithMe, withMeErr = c.SharedWardrobes(ctx)
		done <- struct{}{}
	}()
	go func() {
		overview.SharedByMe, byMeErr = c.WardrobesSharedByMe(ctx)
		done <- struct{}{}
	}()
	for i := 0; i < 3; i++ {
		<-done
	}

	return overview, errors.Join(outfitsErr, withMeErr, byMeErr)
}
