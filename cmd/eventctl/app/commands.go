package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"eventcatalog/internal/catalog"
	"eventcatalog/internal/domain"
	"eventcatalog/internal/services"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func (a *App) newListCommand() *cobra.Command {
	var (
		search     string
		categoryID int64
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, optionally filtered by title and category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.entities.RefreshAll(ctx); err != nil {
				// Whatever loaded is still shown.
				fmt.Fprintf(a.errOut, "warning: %v\n", err)
			}
			cards := a.controller.Catalog(catalog.Query{Search: search, CategoryID: domain.CategoryID(categoryID)})
			return a.writeCards(cards)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive title substring")
	cmd.Flags().Int64VarP(&categoryID, "category", "c", 0, "only events tagged with this category id")
	return cmd
}

// cardOutput is the JSON shape of one listed event.
type cardOutput struct {
	domain.Event
	CategoryNames []string     `json:"categoryNames"`
	Creator       *domain.User `json:"creator,omitempty"`
}

func (a *App) writeCards(cards []catalog.EventCard) error {
	if a.format == formatJSON {
		out := make([]cardOutput, 0, len(cards))
		for _, c := range cards {
			out = append(out, cardOutput{Event: c.Event, CategoryNames: c.CategoryNames, Creator: c.Creator})
		}
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(cards) == 0 {
		fmt.Fprintln(a.out, "No events found")
		return nil
	}
	table := tablewriter.NewTable(a.out)
	table.Header("ID", "Title", "Start", "Location", "Categories", "Creator")
	for _, c := range cards {
		creator := ""
		if c.Creator != nil {
			creator = c.Creator.Name
		}
		row := []any{
			strconv.FormatInt(int64(c.Event.ID), 10),
			c.Event.Title,
			formatTime(c.Event.StartTime),
			c.Event.Location,
			strings.Join(c.CategoryNames, ", "),
			creator,
		}
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	return table.Render()
}

func (a *App) newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one event with its categories and creator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEventID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			// Category names and cached creators come from the reference data;
			// without it the event still shows, less annotated.
			for _, refresh := range []func(context.Context) error{a.entities.RefreshCategories, a.entities.RefreshUsers} {
				if err := refresh(ctx); err != nil {
					fmt.Fprintf(a.errOut, "warning: %v\n", err)
				}
			}

			detail, err := a.controller.View(ctx, id)
			if err != nil {
				return err
			}
			a.writeDetail(detail)
			return nil
		},
	}
}

func (a *App) writeDetail(d *services.EventDetail) {
	e := d.Event
	fmt.Fprintf(a.out, "#%d %s\n", e.ID, e.Title)
	if e.Description != "" {
		fmt.Fprintf(a.out, "  %s\n", e.Description)
	}
	fmt.Fprintf(a.out, "Location:   %s\n", e.Location)
	fmt.Fprintf(a.out, "Starts:     %s\n", formatTime(e.StartTime))
	fmt.Fprintf(a.out, "Ends:       %s\n", formatTime(e.EndTime))
	if e.Image != "" {
		fmt.Fprintf(a.out, "Image:      %s\n", e.Image)
	}
	fmt.Fprintf(a.out, "Categories: %s\n", strings.Join(d.CategoryNames, ", "))
	if d.Creator != nil {
		fmt.Fprintf(a.out, "Created by: %s\n", d.Creator.Name)
	}
}

// eventFlags are the form fields shared by add and edit.
type eventFlags struct {
	title, description, image, location string
	start, end                          string
	categories                          []int64
	author, authorImage                 string
}

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "event title")
	cmd.Flags().StringVar(&f.description, "description", "", "event description")
	cmd.Flags().StringVar(&f.image, "image", "", "image URL")
	cmd.Flags().StringVar(&f.location, "location", "", "where the event takes place")
	cmd.Flags().StringVar(&f.start, "start", "", "start time (RFC 3339 or 2006-01-02T15:04)")
	cmd.Flags().StringVar(&f.end, "end", "", "end time (RFC 3339 or 2006-01-02T15:04)")
	cmd.Flags().Int64SliceVar(&f.categories, "category", nil, "category id, repeatable")
	cmd.Flags().StringVar(&f.author, "author", "", "author display name; created on first use")
	cmd.Flags().StringVar(&f.authorImage, "author-image", "", "avatar URL for a new author")
}

// form converts the flags to an EventForm. Categories are only set when the
// flag was given, so an edit without --category keeps the event's categories.
func (f *eventFlags) form(cmd *cobra.Command) (services.EventForm, error) {
	form := services.EventForm{
		Title:       f.title,
		Description: f.description,
		Image:       f.image,
		Location:    f.location,
	}
	var err error
	if form.StartTime, err = parseTime("start", f.start); err != nil {
		return form, err
	}
	if form.EndTime, err = parseTime("end", f.end); err != nil {
		return form, err
	}
	if cmd.Flags().Changed("category") {
		form.CategoryIDs = make([]domain.CategoryID, 0, len(f.categories))
		for _, id := range f.categories {
			form.CategoryIDs = append(form.CategoryIDs, domain.CategoryID(id))
		}
	}
	return form, nil
}

func (f *eventFlags) authorIdentity() services.Author {
	return services.Author{Name: f.author, Image: f.authorImage}
}

func (a *App) newAddCommand() *cobra.Command {
	var flags eventFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := flags.form(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer a.printNotice()
			if err := a.controller.BeginCreate(ctx, flags.authorIdentity()); err != nil {
				return err
			}
			saved, err := a.controller.Submit(ctx, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created event %d\n", saved.ID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *App) newEditCommand() *cobra.Command {
	var flags eventFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an event; fields left empty keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEventID(args[0])
			if err != nil {
				return err
			}
			form, err := flags.form(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer a.printNotice()
			if err := a.controller.BeginEdit(ctx, id, flags.authorIdentity()); err != nil {
				return err
			}
			saved, err := a.controller.Submit(ctx, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated event %d\n", saved.ID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *App) newDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEventID(args[0])
			if err != nil {
				return err
			}
			if err := a.controller.RequestDelete(id); err != nil {
				return err
			}
			if !yes && !a.confirm(fmt.Sprintf("Delete event %d? [y/N]: ", id)) {
				fmt.Fprintln(a.out, "Delete cancelled")
				return a.controller.CancelDelete()
			}
			defer a.printNotice()
			return a.controller.ConfirmDelete(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm prints prompt and reports whether the answer starts with y.
func (a *App) confirm(prompt string) bool {
	fmt.Fprint(a.out, prompt)
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func parseEventID(s string) (domain.EventID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid event id %q", s)
	}
	return domain.EventID(id), nil
}

func parseTime(name, s string) (domain.Timestamp, error) {
	if s == "" {
		return domain.Timestamp{}, nil
	}
	ts, err := domain.ParseTimestamp(s)
	if err != nil {
		return domain.Timestamp{}, fmt.Errorf("--%s: %w", name, err)
	}
	return ts, nil
}

func formatTime(ts domain.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format("2006-01-02 15:04")
}
