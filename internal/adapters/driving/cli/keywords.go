package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

var (
	keywordsRecent int
	keywordsAll    bool
	keywordsCheck  string
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Inspect previously posted keywords",
}

var keywordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently posted keywords",
	RunE:  runKeywordsList,
}

var keywordsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report which keywords were posted before",
	RunE:  runKeywordsCheck,
}

func init() {
	keywordsListCmd.Flags().IntVarP(&keywordsRecent, "limit", "n", domain.DefaultRecentKeywords, "number of recent keywords")
	keywordsListCmd.Flags().BoolVar(&keywordsAll, "all", false, "list every recorded keyword")
	keywordsCheckCmd.Flags().StringVarP(&keywordsCheck, "keywords", "k", "", "comma-separated keywords")
	keywordsCmd.AddCommand(keywordsListCmd)
	keywordsCmd.AddCommand(keywordsCheckCmd)
	rootCmd.AddCommand(keywordsCmd)
}

func runKeywordsList(cmd *cobra.Command, _ []string) error {
	if keywordService == nil {
		return errNotConfigured("keyword")
	}

	ctx := commandContext(cmd)

	var (
		keywords []string
		err      error
	)
	if keywordsAll {
		keywords, err = keywordService.All(ctx)
	} else {
		keywords, err = keywordService.Recent(ctx, keywordsRecent)
	}
	if err != nil {
		return err
	}

	if len(keywords) == 0 {
		cmd.Println("No keywords posted yet.")
		return nil
	}
	for _, kw := range keywords {
		cmd.Println(kw)
	}
	return nil
}

func runKeywordsCheck(cmd *cobra.Command, _ []string) error {
	if keywordService == nil {
		return errNotConfigured("keyword")
	}

	keywords, err := parseKeywordFlag(keywordsCheck)
	if err != nil {
		return err
	}

	duplicates, err := keywordService.Duplicates(commandContext(cmd), keywords)
	if err != nil {
		return err
	}

	if len(duplicates) == 0 {
		cmd.Println("None of these keywords were posted before.")
		return nil
	}
	cmd.Printf("Already posted: %s\n", strings.Join(duplicates, ", "))
	return nil
}
