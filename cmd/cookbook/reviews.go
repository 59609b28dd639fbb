package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pageza/cookbook/internal/models"
)

func (c *cli) reviewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and write recipe reviews",
	}
	cmd.AddCommand(c.reviewsListCmd(), c.reviewsAddCmd())
	return cmd
}

func (c *cli) reviewsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <recipe-id>",
		Short: "List the reviews of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			reviews, err := a.repo.ListReviews(cmd.Context(), models.ID(args[0]))
			if err != nil {
				return err
			}
			return c.emit(cmd, reviews, func(w io.Writer) { printReviews(w, reviews) })
		},
	}
}

func (c *cli) reviewsAddCmd() *cobra.Command {
	var (
		rating  int
		comment string
	)
	cmd := &cobra.Command{
		Use:   "add <recipe-id>",
		Short: "Rate a recipe from 1 to 5",
		Long: `Add your review to a recipe. Each user reviews a recipe once.

Examples:
  cookbook reviews add 3 --rating 5 --comment "Отлично!"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			review, err := a.repo.AddReview(cmd.Context(), models.ID(args[0]), rating, comment)
			if err != nil {
				return err
			}
			return c.emit(cmd, review, func(w io.Writer) {
				fmt.Fprintf(w, "Review added: %s\n", stars(review.Rating))
			})
		},
	}
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "Rating from 1 to 5 (required)")
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Review text")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}
