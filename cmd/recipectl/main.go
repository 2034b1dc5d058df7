package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"recipe-catalog/internal/client"
	"recipe-catalog/internal/core/search"
)

const usage = `Usage: recipectl [flags] <command> [args]

Commands:
  list                  list every recipe
  show ID               show one recipe
  search [flags]        search recipes (-name, -ingredients, -max-time, -difficulty, -all)

Flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "recipectl:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("recipectl", flag.ContinueOnError)
	server := fs.String("server", envOr("RECIPECTL_SERVER", "http://localhost:8080"), "catalog server URL")
	user := fs.String("user", os.Getenv("RECIPECTL_USER"), "username")
	password := fs.String("password", os.Getenv("RECIPECTL_PASSWORD"), "password")
	timeout := fs.Duration("timeout", 30*time.Second, "overall timeout")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(*server)
	if *user != "" {
		if err := c.Login(ctx, *user, *password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "list":
		return runList(ctx, c, out)
	case "show":
		return runShow(ctx, c, rest, out)
	case "search":
		return runSearch(ctx, c, rest, out)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runList(ctx context.Context, c *client.Client, out io.Writer) error {
	recipes, err := c.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMINUTES\tDIFFICULTY")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.ID, r.Name, r.CookingTime, r.Difficulty)
	}
	return tw.Flush()
}

func runShow(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("show needs exactly one recipe id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid recipe id %q", args[0])
	}

	r, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (#%d)\n", r.Name, r.ID)
	if r.ShortDescription != "" {
		fmt.Fprintf(out, "%s\n", r.ShortDescription)
	}
	fmt.Fprintf(out, "Cooking time: %d minutes\nDifficulty:   %s\nIngredients:\n", r.CookingTime, r.Difficulty)
	for _, ing := range r.IngredientList() {
		fmt.Fprintf(out, "  - %s\n", ing)
	}
	return nil
}

func runSearch(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	name := fs.String("name", "", "recipe name, * and ? are wildcards")
	ingredients := fs.String("ingredients", "", "comma separated ingredients")
	maxTime := fs.Int("max-time", 0, "maximum cooking time in minutes")
	difficulty := fs.String("difficulty", "", "Easy, Medium, Intermediate or Hard")
	all := fs.Bool("all", false, "ignore criteria and list every recipe")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := client.SearchRequest{
		Mode:        string(search.ModeFiltered),
		RecipeName:  *name,
		Ingredients: *ingredients,
		Difficulty:  *difficulty,
	}
	if *all {
		req.Mode = string(search.ModeShowAll)
	}
	if *maxTime > 0 {
		req.CookingTimeMax = maxTime
	}

	res, err := c.Search(ctx, req)
	if err != nil {
		return err
	}
	if res.Matched == 0 {
		fmt.Fprintln(out, "No recipes found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMINUTES\tINGREDIENTS\tDIFFICULTY")
	for _, row := range res.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", row.ID, row.Name, row.CookingTime, row.IngredientCount, row.Difficulty)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d recipe(s) matched\n", res.Matched)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
