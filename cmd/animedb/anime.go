package main

import (
	"context"
	"strings"

	"github.com/deppfellow/animedb/internal/app"
	"github.com/deppfellow/animedb/internal/service"
	"github.com/spf13/cobra"
)

func (c *cli) animeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anime",
		Short: "Catalog queries",
	}

	var k, minReviews int
	top := &cobra.Command{
		Use:   "top",
		Short: "Best rated animes with enough distinct reviewers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				animes, err := a.Store().GetTopAnimes(ctx, k, minReviews)
				if err != nil {
					return err
				}
				return c.print(animes)
			})
		},
	}
	top.Flags().IntVarP(&k, "k", "k", 10, "number of animes")
	top.Flags().IntVar(&minReviews, "min-reviews", 0, "required distinct reviewers, exclusive")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "score <title>",
			Short: "Average review score of an anime",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				title := strings.Join(args, " ")
				return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
					score, err := a.Store().GetAnimeAvgScore(ctx, title)
					if err != nil {
						return err
					}
					return c.print(score)
				})
			},
		},
		top,
		&cobra.Command{
			Use:   "genres",
			Short: "All genre names",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
					genres, err := a.Store().GetAllGenres(ctx)
					if err != nil {
						return err
					}
					return c.print(genres)
				})
			},
		},
		&cobra.Command{
			Use:   "by-genre <genre>[,<genre>...]",
			Short: "Animes tagged with any of the genres",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				genres := service.ParseGenreList(strings.Join(args, ","))
				return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
					animes, err := a.Store().GetAnimeByGenreList(ctx, genres)
					if err != nil {
						return err
					}
					return c.print(animes)
				})
			},
		},
	)

	return cmd
}

func (c *cli) favoritesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorites <profile-id>",
		Short: "Favorite animes of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				favorites, err := a.Store().GetUserFavoriteAnimes(ctx, id)
				if err != nil {
					return err
				}
				return c.print(favorites)
			})
		},
	}
}

func (c *cli) reviewersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviewers",
		Short: "Reviewer statistics",
	}

	var k int
	top := &cobra.Command{
		Use:   "top",
		Short: "Profiles with the most reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				reviewers, err := a.Store().GetMostActiveUsers(ctx, k)
				if err != nil {
					return err
				}
				return c.print(reviewers)
			})
		},
	}
	top.Flags().IntVarP(&k, "k", "k", 10, "number of reviewers")

	cmd.AddCommand(top)
	return cmd
}
