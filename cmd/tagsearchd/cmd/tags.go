package cmd

import (
	"fmt"

	"github.com/materials-commons/tagsearch/pkg/config"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/tagsearch"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tags in use in a group",
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, _ := cmd.Flags().GetInt64("group")

		stors := mustCreateStors(config.GetConfig())
		searcher := tagsearch.NewSearcher(stors, tagsearch.MustNewRenderer())
		tags, err := searcher.TagVocabulary(cmd.Context(), omodel.ForGroup(groupID))
		if err != nil {
			return err
		}

		for _, tag := range tags {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", tag.ID, tag.TextValue)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.Flags().Int64("group", omodel.AllGroups, "group id to list tags for, -1 for all groups")
}
