package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spoilerlog/spoilerlog-go/internal/render"
)

var (
	// list and show flags
	dbPath     string
	showFormat string
)

var errNoDatabase = errors.New("no database: pass --db or set db in the config file")

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List spoiler logs saved to the database",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a spoiler log saved to the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	listCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database")
	showCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database")
	showCmd.Flags().StringVarP(&showFormat, "format", "f", defaultFormat,
		"Output format: json, jsonl, yaml, pretty")
	_ = showCmd.RegisterFlagCompletionFunc("format", completeFormats)

	rootCmd.AddCommand(listCmd, showCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	path := flagOrConfig(cmd, "db", dbPath, cfg.DB)
	if path == "" {
		return errNoDatabase
	}
	st, err := openStore(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTARTING ISLAND\tSPHERES\tSAVED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			e.ID, e.Name, e.StartingIsland, e.Spheres, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	path := flagOrConfig(cmd, "db", dbPath, cfg.DB)
	if path == "" {
		return errNoDatabase
	}
	format := flagOrConfig(cmd, "format", showFormat, cfg.Format)

	r, err := render.New(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	st, err := openStore(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer st.Close()

	log, err := st.Load(cmd.Context(), id)
	if err != nil {
		return err
	}
	return r.Render("", log)
}
