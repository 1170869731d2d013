package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/client/services"
	"github.com/dmitrijs2005/gophvault/internal/common"
)

const timeLayout = "2006-01-02 15:04"

// Add prompts for the record fields and stores the sealed record. An empty
// password asks the generator for one.
func (a *App) Add(ctx context.Context) error {
	var r models.Record
	var err error

	if r.Service, err = GetSimpleText(a.reader, "Service", a.out); err != nil {
		return err
	}
	if r.Service == "" {
		return fmt.Errorf("%w: service is required", common.ErrorValidation)
	}
	if r.Username, err = GetSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	secret, err := GetPassword(a.reader, "Password (empty to generate)", a.out)
	if err != nil {
		return err
	}
	r.Secret = string(secret)
	common.WipeByteArray(secret)
	if r.Secret == "" {
		if r.Secret, err = services.GeneratePassword(services.DefaultPasswordOptions()); err != nil {
			return err
		}
		a.println("Generated password:", r.Secret)
	}
	if r.Notes, err = GetMultiline(a.reader, "Notes", a.out); err != nil {
		return err
	}

	v, err := a.records.Add(ctx, r)
	if err != nil {
		return err
	}
	a.success("Saved %s (%s)", v.Record.Service, v.ID)
	return nil
}

// List prints the records matching query, newest first. Records that could
// not be decrypted are counted, never shown.
func (a *App) List(ctx context.Context, query string) error {
	res, err := a.records.Search(ctx, query)
	if err != nil {
		return err
	}

	a.outMu.Lock()
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSERVICE\tUSERNAME\tUPDATED")
	for _, v := range res.Views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.ID, v.Record.Service, v.Record.Username, formatTime(v.UpdatedAt))
	}
	_ = tw.Flush()
	a.outMu.Unlock()

	if len(res.Views) == 0 {
		if strings.TrimSpace(query) != "" {
			a.println("No records match", color.YellowString(query))
		} else {
			a.println("No records yet, use 'add'")
		}
	}
	if res.Skipped > 0 {
		a.warn("%d record(s) could not be decrypted and were skipped", res.Skipped)
	}
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	v, err := a.records.Get(ctx, id)
	if err != nil {
		return err
	}

	a.outMu.Lock()
	defer a.outMu.Unlock()
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", v.ID)
	fmt.Fprintf(tw, "Service:\t%s\n", v.Record.Service)
	fmt.Fprintf(tw, "Username:\t%s\n", v.Record.Username)
	fmt.Fprintf(tw, "Password:\t%s\n", v.Record.Secret)
	if v.Record.Notes != "" {
		fmt.Fprintf(tw, "Notes:\t%s\n", strings.ReplaceAll(v.Record.Notes, "\n", "\n\t"))
	}
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(v.CreatedAt))
	fmt.Fprintf(tw, "Updated:\t%s\n", formatTime(v.UpdatedAt))
	return tw.Flush()
}

// Edit prompts for every field with the current value as default and
// re-seals the record under a fresh nonce.
func (a *App) Edit(ctx context.Context, id string) error {
	v, err := a.records.Get(ctx, id)
	if err != nil {
		return err
	}
	r := v.Record

	if r.Service, err = GetWithDefault(a.reader, "Service", r.Service, a.out); err != nil {
		return err
	}
	if r.Username, err = GetWithDefault(a.reader, "Username", r.Username, a.out); err != nil {
		return err
	}
	secret, err := GetPassword(a.reader, "Password (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if len(secret) > 0 {
		r.Secret = string(secret)
	}
	common.WipeByteArray(secret)
	notes, err := GetMultiline(a.reader, "Notes (empty to keep, '-' to clear)", a.out)
	if err != nil {
		return err
	}
	switch notes {
	case "":
	case "-":
		r.Notes = ""
	default:
		r.Notes = notes
	}

	upd, err := a.records.Update(ctx, id, r)
	if err != nil {
		return err
	}
	a.success("Updated %s", upd.Record.Service)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Delete record %s? (y/N)", id), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		a.println("Cancelled")
		return nil
	}
	if err := a.records.Delete(ctx, id); err != nil {
		return err
	}
	a.success("Deleted %s", id)
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
