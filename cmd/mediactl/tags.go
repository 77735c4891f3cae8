package main

import (
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func tagQueryValues(include, exclude []string, page, size int) url.Values {
	q := pageQuery(page, size)
	for _, t := range include {
		q.Add("include", t)
	}
	for _, t := range exclude {
		q.Add("exclude", t)
	}
	return q
}

func init() {
	tagsCmd := &cobra.Command{Use: "tags", Short: "Tag operations"}

	var include, exclude []string
	var page, size int
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Photos carrying every --include tag and no --exclude tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(apiFlag, "/api/tags/query", tagQueryValues(include, exclude, page, size), os.Stdout)
		},
	}
	queryCmd.Flags().StringSliceVarP(&include, "include", "i", nil, "Required tags (repeat or comma separate)")
	queryCmd.Flags().StringSliceVarP(&exclude, "exclude", "x", nil, "Forbidden tags (repeat or comma separate)")
	queryCmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	queryCmd.Flags().IntVarP(&size, "page-size", "s", 0, "Page size (server default when 0)")
	tagsCmd.AddCommand(queryCmd)

	var indexPage, indexSize int
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "List tags by photo count",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(apiFlag, "/api/tags", pageQuery(indexPage, indexSize), os.Stdout)
		},
	}
	indexCmd.Flags().IntVarP(&indexPage, "page", "p", 1, "Page number")
	indexCmd.Flags().IntVarP(&indexSize, "page-size", "s", 0, "Page size (server default when 0)")
	tagsCmd.AddCommand(indexCmd)

	var detailPage, detailSize int
	detailCmd := &cobra.Command{
		Use:   "detail TAG",
		Short: "List photos carrying one tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(apiFlag, "/api/tags/"+url.PathEscape(args[0]), pageQuery(detailPage, detailSize), os.Stdout)
		},
	}
	detailCmd.Flags().IntVarP(&detailPage, "page", "p", 1, "Page number")
	detailCmd.Flags().IntVarP(&detailSize, "page-size", "s", 0, "Page size (server default when 0)")
	tagsCmd.AddCommand(detailCmd)

	rootCmd.AddCommand(tagsCmd)
}
