package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

var (
	hashtagKeywords string
	hashtagLimit    int
)

var hashtagsCmd = &cobra.Command{
	Use:   "hashtags",
	Short: "Build hashtags from keywords",
	Long: `Prints hashtags built from the keywords, topped up from a pool of
generic professional tags until the limit is reached.`,
	RunE: runHashtags,
}

func init() {
	hashtagsCmd.Flags().StringVarP(&hashtagKeywords, "keywords", "k", "", "comma-separated keywords")
	hashtagsCmd.Flags().IntVarP(&hashtagLimit, "limit", "n", domain.DefaultHashtagLimit, "maximum number of hashtags")
	rootCmd.AddCommand(hashtagsCmd)
}

func runHashtags(cmd *cobra.Command, _ []string) error {
	if generatorService == nil {
		return errNotConfigured("generator")
	}

	keywords, err := parseKeywordFlag(hashtagKeywords)
	if err != nil {
		return err
	}

	cmd.Println(generatorService.Hashtags(keywords, hashtagLimit))
	return nil
}
