// Command entrez is a small console front end for the Entrez E-utilities
// client: einfo lists databases or describes one, esearch runs a text query.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/pubmedkit/entrez-go/internal/api"
	"github.com/pubmedkit/entrez-go/internal/config"
	"github.com/pubmedkit/entrez-go/internal/models"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:           "entrez",
		Short:         "Query the NCBI Entrez E-utilities (EInfo, ESearch)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(einfoCommand(&verbose))
	root.AddCommand(esearchCommand(&verbose))

	return root.ExecuteContext(ctx)
}

// newClient builds a logged Entrez client from environment identification
func newClient(verbose bool) (*api.Client, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}

	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})

	return api.NewClientWithLogging(env.Tool, env.Email, logger), nil
}

func einfoCommand(verbose *bool) *cobra.Command {
	var db, version string

	cmd := &cobra.Command{
		Use:   "einfo",
		Short: "List Entrez databases, or describe one with --db",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(*verbose)
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.EInfo(cmd.Context(), models.EInfoRequest{
				Db:      db,
				Version: version,
			})
			if err != nil {
				return err
			}

			if len(resp.Result.DbInfo) > 0 {
				printDbInfo(cmd, resp.Result.DbInfo)
				return nil
			}

			for _, name := range resp.Result.DbList {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "database to describe (e.g. pubmed)")
	cmd.Flags().StringVar(&version, "version", "", "API version (2.0 adds truncation/range flags)")
	return cmd
}

func printDbInfo(cmd *cobra.Command, infos []models.DbInfo) {
	out := cmd.OutOrStdout()
	for _, info := range infos {
		fmt.Fprintf(out, "%s (%s)\n", info.DbName, info.MenuName)
		fmt.Fprintf(out, "%s\n", info.Description)
		fmt.Fprintf(out, "Records: %s  Build: %s  Updated: %s\n\n", info.Count, info.DbBuild, info.LastUpdate)

		if len(info.FieldList) > 0 {
			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Field", "Full Name", "Terms"})
			for _, f := range info.FieldList {
				table.Append([]string{f.Name, f.FullName, f.TermCount})
			}
			table.Render()
		}

		if len(info.LinkList) > 0 {
			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Link", "Target DB", "Description"})
			for _, l := range info.LinkList {
				table.Append([]string{l.Name, l.DbTo, l.Description})
			}
			table.Render()
		}
	}
}

func esearchCommand(verbose *bool) *cobra.Command {
	var (
		db         string
		retStart   int
		retMax     int
		dateType   string
		minDate    string
		maxDate    string
		useHistory bool
	)

	cmd := &cobra.Command{
		Use:   "esearch <term>",
		Short: "Search a database for UIDs matching a text query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(*verbose)
			if err != nil {
				return err
			}
			defer client.Close()

			req := models.ESearchRequest{
				Db:         db,
				Term:       args[0],
				DateType:   dateType,
				MinDate:    minDate,
				MaxDate:    maxDate,
				UseHistory: useHistory,
			}
			if cmd.Flags().Changed("retstart") {
				req.RetStart = &retStart
			}
			if cmd.Flags().Changed("retmax") {
				req.RetMax = &retMax
			}

			resp, err := client.ESearch(cmd.Context(), req)
			if err != nil {
				return err
			}

			printSearchResult(cmd, resp.Result)
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "database to search (remote default: pubmed)")
	cmd.Flags().IntVar(&retStart, "retstart", 0, "index of the first UID to return")
	cmd.Flags().IntVar(&retMax, "retmax", 0, "maximum number of UIDs to return")
	cmd.Flags().StringVar(&dateType, "datetype", "", "date field for range filtering (pdat, edat, mdat)")
	cmd.Flags().StringVar(&minDate, "mindate", "", "range start, YYYY/MM/DD")
	cmd.Flags().StringVar(&maxDate, "maxdate", "", "range end, YYYY/MM/DD")
	cmd.Flags().BoolVar(&useHistory, "use-history", false, "store results on the Entrez History server")
	return cmd
}

func printSearchResult(cmd *cobra.Command, result *models.ESearchResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Matches: %s\n", result.Count)
	if result.QueryTranslation != "" {
		fmt.Fprintf(out, "Query translation: %s\n", result.QueryTranslation)
	}
	if result.QueryKey != "" {
		fmt.Fprintf(out, "History: query_key=%s WebEnv=%s\n", result.QueryKey, result.WebEnv)
	}

	if result.ErrorList != nil {
		for _, p := range result.ErrorList.PhrasesNotFound {
			fmt.Fprintf(out, "Phrase not found: %s\n", p)
		}
		for _, f := range result.ErrorList.FieldsNotFound {
			fmt.Fprintf(out, "Field not found: %s\n", f)
		}
	}
	if result.WarningList != nil {
		for _, w := range result.WarningList.OutputMessages {
			fmt.Fprintf(out, "Warning: %s\n", w)
		}
	}

	if len(result.IDList) == 0 {
		fmt.Fprintln(out, "No UIDs returned")
		return
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"#", "UID"})
	for i, uid := range result.IDList {
		table.Append([]string{fmt.Sprintf("%d", i+1), uid})
	}
	table.Render()
}
