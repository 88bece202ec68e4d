package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/materials-commons/tagsearch/pkg/config"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/tagsearch"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find the containers carrying a set of tags",
	Example: `  tagsearchd search --tag 12 --tag 15 --operation OR
  tagsearchd search --tag 12 --exclude 7 --hide well --group 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := searchRequestFromFlags(cmd)
		if err != nil {
			return err
		}

		stors := mustCreateStors(config.GetConfig())
		searcher := tagsearch.NewSearcher(stors, tagsearch.MustNewRenderer())
		result, err := searcher.Search(cmd.Context(), req)
		if err != nil {
			return err
		}

		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func searchRequestFromFlags(cmd *cobra.Command) (tagsearch.SearchRequest, error) {
	var req tagsearch.SearchRequest
	flags := cmd.Flags()

	req.SelectedTags, _ = flags.GetInt64Slice("tag")
	req.ExcludedTags, _ = flags.GetInt64Slice("exclude")
	groupID, _ := flags.GetInt64("group")
	req.Opts = omodel.ForGroup(groupID)

	operation, _ := flags.GetString("operation")
	op, err := tagsearch.ParseOperation(operation)
	if err != nil {
		return req, err
	}
	req.Operation = op

	hide, _ := flags.GetStringSlice("hide")
	for _, name := range hide {
		ct, ok := omodel.ParseContainerType(name)
		if !ok {
			return req, fmt.Errorf("unknown container type '%s'", name)
		}
		req.HiddenTypes = append(req.HiddenTypes, ct)
	}

	return req, nil
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Int64Slice("tag", nil, "tag id to search for, may be repeated")
	searchCmd.Flags().Int64Slice("exclude", nil, "tag id that must not be present, may be repeated")
	searchCmd.Flags().String("operation", string(tagsearch.DefaultOperation), "AND or OR")
	searchCmd.Flags().StringSlice("hide", nil, "container type to leave out of the search details, may be repeated")
	searchCmd.Flags().Int64("group", omodel.AllGroups, "group id to search in, -1 for all groups")
}
