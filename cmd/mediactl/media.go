package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mediaCmd("photos"), mediaCmd("videos"))
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// mediaCmd builds the feed commands for one kind, e.g. "mediactl photos next".
func mediaCmd(slug string) *cobra.Command {
	group := &cobra.Command{Use: slug, Short: fmt.Sprintf("Browse and rate %s", slug)}
	base := "/api/" + slug

	group.AddCommand(&cobra.Command{
		Use:   "next",
		Short: "Show the next unseen item",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(apiFlag, base+"/next", nil, os.Stdout)
		},
	})

	for _, action := range []string{"skip", "like", "unlike"} {
		group.AddCommand(&cobra.Command{
			Use:   action + " ID",
			Short: fmt.Sprintf("%s an item", action),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return runPostID(apiFlag, base+"/"+action, id, os.Stdout)
			},
		})
	}

	group.AddCommand(&cobra.Command{
		Use:   "liked",
		Short: "List liked items, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(apiFlag, base+"/liked", nil, os.Stdout)
		},
	})

	var page, size int
	list := &cobra.Command{
		Use:   "list",
		Short: "Page through the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(apiFlag, base, pageQuery(page, size), os.Stdout)
		},
	}
	list.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	list.Flags().IntVarP(&size, "page-size", "s", 0, "Page size (server default when 0)")
	group.AddCommand(list)

	return group
}
