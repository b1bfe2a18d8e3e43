// Command assettrack is the command-line front end for the asset
// dashboard: it drives the session manager and the store client, never
// the database directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"assettrack/internal/config"
	"assettrack/internal/models"
	"assettrack/pkg/export"
	"assettrack/pkg/session"
	"assettrack/pkg/store"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: assettrack <command> [flags]

Commands:
  register     create an account and sign in
  login        sign in with an email or username
  logout       sign out
  whoami       show the active session
  assets       list/get/add/set/rm assets
  categories   list/add/set/rm categories
  departments  list/add/set/rm departments
  users        list users
  export       write an asset report workbook`)
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.LoadClient()
	for _, warning := range cfg.Warnings() {
		log.Println("warning:", warning)
	}

	creds := session.NewCredStore(cfg.StateDir)
	sessions := session.NewManager(cfg.AuthURL, nil, creds)
	client := store.NewClient(store.Config{
		URL:         cfg.StoreURL,
		Key:         cfg.StoreKey,
		TokenSource: sessions.Token,
	})

	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "register":
		err = runRegister(ctx, sessions, os.Args[2:])
	case "login":
		err = runLogin(ctx, sessions, os.Args[2:])
	case "logout":
		sessions.Logout()
		fmt.Println("Logged out.")
	case "whoami":
		runWhoami(sessions)
	case "assets":
		err = runAssets(ctx, client, os.Args[2:])
	case "categories":
		err = runCategories(ctx, client, os.Args[2:])
	case "departments":
		err = runDepartments(ctx, client, os.Args[2:])
	case "users":
		err = runUsers(ctx, client, os.Args[2:])
	case "export":
		err = runExport(ctx, client, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runRegister(ctx context.Context, sessions *session.Manager, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email (required)")
	password := fs.String("password", "", "account password (required)")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("register: -email and -password are required")
	}

	sess, err := sessions.Register(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Registered and signed in as %s (%s)\n", sess.Username, sess.Email)
	return nil
}

func runLogin(ctx context.Context, sessions *session.Manager, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	identifier := fs.String("id", "", "email or username (required)")
	password := fs.String("password", "", "account password (required)")
	fs.Parse(args)

	if *identifier == "" || *password == "" {
		return fmt.Errorf("login: -id and -password are required")
	}

	sess, err := sessions.Login(ctx, *identifier, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", sess.Username, sess.Email)
	return nil
}

func runWhoami(sessions *session.Manager) {
	sess := sessions.Current()
	if sess == nil {
		fmt.Println("Not signed in.")
		return
	}
	fmt.Printf("%s (%s), user id %d\n", sess.Username, sess.Email, sess.UserID)
}

func runAssets(ctx context.Context, client *store.Client, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("assets: expected list, get, add, set, or rm")
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("assets list", flag.ExitOnError)
		order := fs.String("order", "name", "field to sort by, ascending")
		status := fs.String("status", "", "filter by status")
		category := fs.String("category", "", "filter by category id")
		fs.Parse(args[1:])

		opts := store.ListOptions{
			OrderBy: *order,
			Expand:  []string{"category", "department"},
			Filter:  map[string]string{},
		}
		if *status != "" {
			opts.Filter["status"] = *status
		}
		if *category != "" {
			opts.Filter["category_id"] = *category
		}

		assets, err := store.List[models.Asset](ctx, client, store.Assets, opts)
		if err != nil {
			return err
		}
		printAssets(assets)
		return nil

	case "get":
		id, err := parseID(args[1:], "assets get")
		if err != nil {
			return err
		}
		asset, err := store.GetByID[models.Asset](ctx, client, store.Assets, id, store.ListOptions{
			Expand: []string{"category", "department"},
		})
		if err != nil {
			return err
		}
		printAssets([]models.Asset{asset})
		return nil

	case "add":
		input, err := parseAssetInput("assets add", args[1:])
		if err != nil {
			return err
		}
		created, err := store.Create[models.Asset](ctx, client, store.Assets, input)
		if err != nil {
			return err
		}
		fmt.Printf("Created asset %d (%s)\n", created.ID, created.AssetCode)
		return nil

	case "set":
		if len(args) < 2 {
			return fmt.Errorf("assets set: expected an asset id")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("assets set: invalid id %q", args[1])
		}
		input, err := parseAssetInput("assets set", args[2:])
		if err != nil {
			return err
		}
		if err := client.Update(ctx, store.Assets, id, input); err != nil {
			return err
		}
		fmt.Printf("Updated asset %d\n", id)
		return nil

	case "rm":
		id, err := parseID(args[1:], "assets rm")
		if err != nil {
			return err
		}
		if err := client.Remove(ctx, store.Assets, id); err != nil {
			return err
		}
		fmt.Printf("Removed asset %d\n", id)
		return nil
	}

	return fmt.Errorf("assets: unknown subcommand %q", args[0])
}

// parseAssetInput reads the full asset form state from flags. Flags
// left blank go out empty/null, matching the submit semantics of the
// dashboard forms.
func parseAssetInput(name string, args []string) (models.AssetInput, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	assetName := fs.String("name", "", "asset name (required)")
	code := fs.String("code", "", "asset code (required)")
	category := fs.Int64("category", 0, "category id (required)")
	department := fs.Int64("department", 0, "department id")
	status := fs.String("status", "available", "available, assigned, maintenance, or retired")
	date := fs.String("date", "", "acquisition date (YYYY-MM-DD)")
	cost := fs.Float64("cost", 0, "acquisition cost")
	location := fs.String("location", "", "asset location")
	notes := fs.String("notes", "", "notes")
	desc := fs.String("desc", "", "description")
	fs.Parse(args)

	input := models.AssetInput{
		Name:       *assetName,
		AssetCode:  *code,
		CategoryID: *category,
		Status:     *status,
	}
	if *department != 0 {
		input.DepartmentID = department
	}
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return input, fmt.Errorf("%s: invalid -date %q, want YYYY-MM-DD", name, *date)
		}
		input.AcquisitionDate = &parsed
	}
	if *cost != 0 {
		input.AcquisitionCost = cost
	}
	if *location != "" {
		input.Location = location
	}
	if *notes != "" {
		input.Notes = notes
	}
	if *desc != "" {
		input.Description = desc
	}
	return input, nil
}

func printAssets(assets []models.Asset) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCODE\tCATEGORY\tDEPARTMENT\tSTATUS")
	for _, a := range assets {
		category := strconv.FormatInt(a.CategoryID, 10)
		if a.Category != nil {
			category = a.Category.Name
		}
		department := ""
		if a.Department != nil {
			department = a.Department.Name
		} else if a.DepartmentID != nil {
			department = strconv.FormatInt(*a.DepartmentID, 10)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.AssetCode, category, department, a.Status)
	}
	w.Flush()
}

func runCategories(ctx context.Context, client *store.Client, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("categories: expected list, add, set, or rm")
	}

	switch args[0] {
	case "list":
		categories, err := store.List[models.Category](ctx, client, store.Categories, store.ListOptions{OrderBy: "name"})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, c := range categories {
			fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, stringValue(c.Description))
		}
		return w.Flush()

	case "add":
		input, err := parseNamedInput("categories add", args[1:])
		if err != nil {
			return err
		}
		created, err := store.Create[models.Category](ctx, client, store.Categories, models.CategoryInput(input))
		if err != nil {
			return err
		}
		fmt.Printf("Created category %d (%s)\n", created.ID, created.Name)
		return nil

	case "set":
		if len(args) < 2 {
			return fmt.Errorf("categories set: expected a category id")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("categories set: invalid id %q", args[1])
		}
		input, err := parseNamedInput("categories set", args[2:])
		if err != nil {
			return err
		}
		if err := client.Update(ctx, store.Categories, id, models.CategoryInput(input)); err != nil {
			return err
		}
		fmt.Printf("Updated category %d\n", id)
		return nil

	case "rm":
		id, err := parseID(args[1:], "categories rm")
		if err != nil {
			return err
		}
		if err := client.Remove(ctx, store.Categories, id); err != nil {
			return err
		}
		fmt.Printf("Removed category %d\n", id)
		return nil
	}

	return fmt.Errorf("categories: unknown subcommand %q", args[0])
}

func runDepartments(ctx context.Context, client *store.Client, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("departments: expected list, add, set, or rm")
	}

	switch args[0] {
	case "list":
		departments, err := store.List[models.Department](ctx, client, store.Departments, store.ListOptions{OrderBy: "name"})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, d := range departments {
			fmt.Fprintf(w, "%d\t%s\t%s\n", d.ID, d.Name, stringValue(d.Description))
		}
		return w.Flush()

	case "add":
		input, err := parseNamedInput("departments add", args[1:])
		if err != nil {
			return err
		}
		created, err := store.Create[models.Department](ctx, client, store.Departments, models.DepartmentInput(input))
		if err != nil {
			return err
		}
		fmt.Printf("Created department %d (%s)\n", created.ID, created.Name)
		return nil

	case "set":
		if len(args) < 2 {
			return fmt.Errorf("departments set: expected a department id")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("departments set: invalid id %q", args[1])
		}
		input, err := parseNamedInput("departments set", args[2:])
		if err != nil {
			return err
		}
		if err := client.Update(ctx, store.Departments, id, models.DepartmentInput(input)); err != nil {
			return err
		}
		fmt.Printf("Updated department %d\n", id)
		return nil

	case "rm":
		id, err := parseID(args[1:], "departments rm")
		if err != nil {
			return err
		}
		if err := client.Remove(ctx, store.Departments, id); err != nil {
			return err
		}
		fmt.Printf("Removed department %d\n", id)
		return nil
	}

	return fmt.Errorf("departments: unknown subcommand %q", args[0])
}

// namedInput is the shared form state for categories and departments.
type namedInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func parseNamedInput(name string, args []string) (namedInput, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	entryName := fs.String("name", "", "name (required)")
	desc := fs.String("desc", "", "description")
	fs.Parse(args)

	if *entryName == "" {
		return namedInput{}, fmt.Errorf("%s: -name is required", name)
	}
	input := namedInput{Name: *entryName}
	if *desc != "" {
		input.Description = desc
	}
	return input, nil
}

func runUsers(ctx context.Context, client *store.Client, args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return fmt.Errorf("users: expected list")
	}

	users, err := store.List[models.User](ctx, client, store.Users, store.ListOptions{
		OrderBy: "username",
		Expand:  []string{"department"},
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tDEPARTMENT\tROLE")
	for _, u := range users {
		department := ""
		if u.Department != nil {
			department = u.Department.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, department, u.Role)
	}
	return w.Flush()
}

func runExport(ctx context.Context, client *store.Client, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "assets.xlsx", "output file")
	fs.Parse(args)

	assets, err := store.List[models.Asset](ctx, client, store.Assets, store.ListOptions{
		OrderBy: "name",
		Expand:  []string{"category", "department"},
	})
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteAssetReport(f, assets); err != nil {
		return err
	}
	fmt.Printf("Wrote %d assets to %s\n", len(assets), *out)
	return nil
}

func parseID(args []string, name string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s: expected an id", name)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid id %q", name, args[0])
	}
	return id, nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
