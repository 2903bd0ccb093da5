package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/pagemd/core/config"
	"github.com/gaurav-prasanna/pagemd/core/document"
	"github.com/gaurav-prasanna/pagemd/core/dom"
	"github.com/gaurav-prasanna/pagemd/core/extract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yosssi/gohtml"
)

var (
	inspectStrip   bool
	inspectLineNos bool
	inspectBrowser bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <url|file>",
	Short: "Show which part of a page would be converted",
	Long: `Inspect prints the selector that picked the content root, a count of the
node kinds inside it, and the root's HTML, indented for reading.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	f := inspectCmd.Flags()
	f.BoolVar(&inspectStrip, "strip", false, "Remove navigation, footers, forms and ads first")
	f.BoolVar(&inspectLineNos, "lines", false, "Number the HTML lines")
	f.BoolVar(&inspectBrowser, "browser", false, "Render the page in headless Chrome first")
	f.StringVar(&flagBase, "base", "", "Base URL for relative links in a local file")
}

func runInspect(cmd *cobra.Command, args []string) error {
	if inspectBrowser {
		viper.Set("fetch.mode", "browser")
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	fetcher, closeFetcher, err := selectFetcher(args[0], cfg)
	if err != nil {
		return err
	}
	defer closeFetcher()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	fetched, err := fetcher.Fetch(ctx, args[0])
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	page, err := document.Parse(fetched)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	root, err := extract.New(extract.Options{StripChrome: inspectStrip || cfg.StripChrome}).ContentRoot(page.Doc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Title:    %s\n", page.Title)
	fmt.Fprintf(out, "URL:      %s\n", page.URL)
	fmt.Fprintf(out, "Selector: %s\n", root.Selector)
	fmt.Fprintln(out, "Kinds:")
	for _, kc := range kindCounts(root.Node) {
		fmt.Fprintf(out, "  %-12s %d\n", kc.kind, kc.count)
	}
	fmt.Fprintln(out)

	markup := root.Node.OuterHTML()
	if inspectLineNos {
		fmt.Fprintln(out, gohtml.FormatWithLineNo(markup))
	} else {
		fmt.Fprintln(out, gohtml.Format(markup))
	}
	return nil
}

type kindCount struct {
	kind  dom.Kind
	count int
}

var anyElement = cascadia.MustCompile("*")

// kindCounts tallies the kinds of the elements below root, most common
// first.
func kindCounts(root dom.Node) []kindCount {
	counts := map[dom.Kind]int{}
	for _, n := range root.FindAll(anyElement) {
		counts[n.Kind()]++
	}
	out := make([]kindCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, kindCount{kind: k, count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].kind < out[j].kind
	})
	return out
}
