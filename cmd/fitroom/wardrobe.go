package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fitroom/fitroom/api"
	"github.com/fitroom/fitroom/apperr"
	"github.com/fitroom/fitroom/nav"
)

func wardrobeCmd(configPath *string) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "wardrobe",
		Short: "List your wardrobe and active shares",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			app.router.Redirect(nav.RouteWardrobe)

			if owner != "" {
				items, err := app.cloth.SharedWardrobeItems(cmd.Context(), owner)
				if err != nil {
					if app.sessionExpired() {
						return fmt.Errorf("session expired, please log in again")
					}
					return fmt.Errorf("%s", apperr.Message(err, "failed to fetch shared wardrobe items"))
				}
				printSharedItems(owner, items)
				return nil
			}

			overview, err := app.cloth.Overview(cmd.Context())
			if err != nil {
				if app.sessionExpired() {
					return fmt.Errorf("session expired, please log in again")
				}
				return fmt.Errorf("%s", apperr.Message(err, "failed to load wardrobe"))
			}

			printCategory("T-shirts", overview.Outfits.Tshirts)
			printCategory("Jeans", overview.Outfits.Jeans)
			printCategory("Skirts", overview.Outfits.Skirts)
			printShares("Shared with you", overview.SharedWithMe, func(s api.SharedWardrobe) string {
				return s.OwnerUsername
			})
			printShares("Shared by you", overview.SharedByMe, func(s api.SharedWardrobe) string {
				return s.SharedWithUsername
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "show another user's shared wardrobe instead of your own")
	return cmd
}

func uploadCmd(configPath *string) *cobra.Command {
	var data api.ClothData

	cmd := &cobra.Command{
		Use:   "upload <image-file>",
		Short: "Upload a clothing photo with its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			app.router.Redirect(nav.RouteWardrobe)
			created, err := app.cloth.Upload(cmd.Context(), filepath.Base(args[0]), file, data)
			if err != nil {
				if app.sessionExpired() {
					return fmt.Errorf("session expired, please log in again")
				}
				return fmt.Errorf("%s", apperr.Message(err, "failed to upload cloth"))
			}
			if created.ID != 0 {
				fmt.Printf("Uploaded item %d\n", created.ID)
			} else {
				fmt.Println("Uploaded")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&data.Typ, "type", "", "clothing type: tshirt|jeans|skirt")
	cmd.Flags().StringVar(&data.Size, "size", "", "size label, e.g. M or 32")
	cmd.Flags().StringVar(&data.SizeMetrics, "size-metrics", "", "measurement system, e.g. EU or US")
	cmd.Flags().StringVar(&data.Name, "name", "", "item name")
	cmd.Flags().StringVar(&data.Description, "description", "", "item description")
	cmd.Flags().StringVar(&data.Price, "price", "", "purchase price")
	cmd.Flags().StringVar(&data.Color, "color", "", "main color")
	cmd.Flags().StringVar(&data.Material, "material", "", "fabric or material")
	cmd.Flags().StringVar(&data.Brand, "brand", "", "brand name")
	cmd.Flags().StringVar(&data.NeckType, "neck-type", "", "t-shirt neck type")
	cmd.Flags().StringVar(&data.SleeveType, "sleeve-type", "", "t-shirt sleeve type")
	cmd.Flags().StringVar(&data.FitType, "fit-type", "", "jeans fit type")
	cmd.Flags().StringVar(&data.SkirtType, "skirt-type", "", "skirt type")
	return cmd
}

func shareCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Manage wardrobe sharing",
	}

	grant := &cobra.Command{
		Use:   "grant <username>",
		Short: "Share your wardrobe with a user",
		Args:  cobra.ExactArgs(1),
		RunE:  shareRun(configPath, "grant"),
	}
	revoke := &cobra.Command{
		Use:   "revoke <username>",
		Short: "Stop sharing your wardrobe with a user",
		Args:  cobra.ExactArgs(1),
		RunE:  shareRun(configPath, "revoke"),
	}

	cmd.AddCommand(grant, revoke)
	return cmd
}

func shareRun(configPath *string, action string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := newApp(*configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		app.router.Redirect(nav.RouteWardrobe)

		var message string
		if action == "grant" {
			message, err = app.cloth.ShareWardrobe(cmd.Context(), args[0])
		} else {
			message, err = app.cloth.UnshareWardrobe(cmd.Context(), args[0])
		}
		if err != nil {
			if app.sessionExpired() {
				return fmt.Errorf("session expired, please log in again")
			}
			return fmt.Errorf("%s", apperr.Message(err, "failed to update sharing"))
		}
		if message == "" {
			message = "Done"
		}
		fmt.Println(message)
		return nil
	}
}

func likeCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "react",
		Short: "React to shared items and outfit combinations",
	}

	cmd.AddCommand(
		preferenceCmd(configPath, "like <cloth-id>", "Like a shared clothing item",
			func(app *appContext, cmd *cobra.Command, id string) (api.MessageResult, error) {
				return app.cloth.LikeCloth(cmd.Context(), id)
			}),
		preferenceCmd(configPath, "dislike <cloth-id>", "Dislike a shared clothing item",
			func(app *appContext, cmd *cobra.Command, id string) (api.MessageResult, error) {
				return app.cloth.DislikeCloth(cmd.Context(), id)
			}),
		preferenceCmd(configPath, "favorite <cloth-id>", "Mark a shared item as a favorite",
			func(app *appContext, cmd *cobra.Command, id string) (api.MessageResult, error) {
				return app.cloth.FavoriteCloth(cmd.Context(), id)
			}),
		preferenceCmd(configPath, "unfavorite <cloth-id>", "Remove a favorite mark",
			func(app *appContext, cmd *cobra.Command, id string) (api.MessageResult, error) {
				return app.cloth.UnfavoriteCloth(cmd.Context(), id)
			}),
		combinationCmd(configPath, "like-combination <code>", "Like a recommended outfit combination",
			func(app *appContext, cmd *cobra.Command, code string) (string, error) {
				return app.cloth.LikeCombination(cmd.Context(), code)
			}),
		combinationCmd(configPath, "dislike-combination <code>", "Dislike a recommended outfit combination",
			func(app *appContext, cmd *cobra.Command, code string) (string, error) {
				return app.cloth.DislikeCombination(cmd.Context(), code)
			}),
	)
	return cmd
}

func preferenceCmd(configPath *string, use, short string,
	call func(*appContext, *cobra.Command, string) (api.MessageResult, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			app.router.Redirect(nav.RouteWardrobe)
			result, err := call(app, cmd, args[0])
			if err != nil {
				if app.sessionExpired() {
					return fmt.Errorf("session expired, please log in again")
				}
				return fmt.Errorf("%s", apperr.Message(err, "request failed"))
			}
			if result.Message != "" {
				fmt.Println(result.Message)
			} else {
				fmt.Println("Done")
			}
			return nil
		},
	}
}

func combinationCmd(configPath *string, use, short string,
	call func(*appContext, *cobra.Command, string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			app.router.Redirect(nav.RouteWardrobe)
			message, err := call(app, cmd, args[0])
			if err != nil {
				if app.sessionExpired() {
					return fmt.Errorf("session expired, please log in again")
				}
				return fmt.Errorf("%s", apperr.Message(err, "request failed"))
			}
			if message == "" {
				message = "Done"
			}
			fmt.Println(message)
			return nil
		},
	}
}

func printCategory(title string, clothes []api.Cloth) {
	if len(clothes) == 0 {
		return
	}
	fmt.Println(title + ":")
	for _, cloth := range clothes {
		brand := cloth.Brand
		if brand == "" {
			brand = "unknown brand"
		}
		fmt.Printf("  [%d] %s, size %s\n", cloth.ID, brand, cloth.Size)
	}
}

func printShares(title string, shares []api.SharedWardrobe, who func(api.SharedWardrobe) string) {
	var active []api.SharedWardrobe
	for _, share := range shares {
		if share.IsActive {
			active = append(active, share)
		}
	}
	if len(active) == 0 {
		return
	}
	fmt.Println(title + ":")
	for _, share := range active {
		fmt.Printf("  %s\n", who(share))
	}
}

func printSharedItems(owner string, items map[string][]api.SharedItem) {
	fmt.Printf("%s's wardrobe:\n", owner)
	for category, list := range items {
		if len(list) == 0 {
			continue
		}
		fmt.Println(category + ":")
		for _, item := range list {
			marker := " "
			if item.IsFavorite {
				marker = "*"
			}
			brand := item.Item.Brand
			if brand == "" {
				brand = "unknown brand"
			}
			fmt.Printf("  %s [%d] %s, size %s\n", marker, item.Item.ID, brand, item.Item.Size)
		}
	}
}
