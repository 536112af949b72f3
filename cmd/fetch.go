package cmd

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"

	"github.com/sw33tLie/formgap/internal/utils"
	"github.com/sw33tLie/formgap/pkg/catalog"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [url] [output-file]",
	Short: "Download a webform template export over HTTP",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		templateURL, outPath := args[0], args[1]

		retryClient := retryablehttp.NewClient()
		retryClient.Logger = log.New(io.Discard, "", 0)
		retryClient.RetryMax = 5

		if proxy, _ := rootCmd.PersistentFlags().GetString("proxy"); proxy != "" {
			proxyURL, err := url.Parse(proxy)
			if err != nil {
				return fmt.Errorf("invalid proxy URL: %v", err)
			}
			retryClient.HTTPClient.Transport = &http.Transport{
				Proxy: http.ProxyURL(proxyURL),
			}
		}

		resp, err := retryClient.Get(templateURL)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, templateURL)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		// A quick parse catches exports that are HTML error pages.
		cat, err := catalog.Parse(body)
		if err != nil {
			return fmt.Errorf("downloaded document is not a template: %w", err)
		}
		utils.Log.Infof("template has %d fields and %d workflows", len(cat.Fields), len(cat.Workflows))

		if err := os.WriteFile(outPath, body, 0644); err != nil {
			return err
		}
		fmt.Printf("Saved %d bytes to %s\n", len(body), outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
