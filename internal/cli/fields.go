package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/valet/internal/editor"
	"github.com/roach88/valet/internal/license"
	"github.com/roach88/valet/internal/schema"
)

// fieldFlags maps each editable field to its command-line flag.
var fieldFlags = []struct {
	flag  string
	field editor.Field
	usage string
}{
	{"name", editor.FieldSoftwareName, "software name"},
	{"url", editor.FieldURL, "download or product URL"},
	{"registered-name", editor.FieldRegisteredToName, "name the license is registered to"},
	{"registered-email", editor.FieldRegisteredToEmail, "email the license is registered to"},
	{"key", editor.FieldLicenseKey, "license key"},
	{"notes", editor.FieldNotes, "notes (markdown)"},
}

// LicenseFlags holds the per-field flags shared by add and edit.
type LicenseFlags struct {
	values    map[editor.Field]*string
	NotesFile string
	Icon      string
}

func newLicenseFlags(cmd *cobra.Command) *LicenseFlags {
	f := &LicenseFlags{values: make(map[editor.Field]*string)}
	for _, ff := range fieldFlags {
		f.values[ff.field] = cmd.Flags().String(ff.flag, "", ff.usage)
	}
	cmd.Flags().StringVar(&f.NotesFile, "notes-file", "", "read notes from a markdown file")
	cmd.Flags().StringVar(&f.Icon, "icon", "", "path to an icon image shown with the license")
	cmd.MarkFlagsMutuallyExclusive("notes", "notes-file")
	return f
}

// IconChanged reports whether --icon was given, including an explicit
// empty value that clears the icon.
func (f *LicenseFlags) IconChanged(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("icon")
}

// Changes returns one FieldChange per flag the user set, in form order.
func (f *LicenseFlags) Changes(cmd *cobra.Command) ([]editor.FieldChange, error) {
	var changes []editor.FieldChange
	for _, ff := range fieldFlags {
		if cmd.Flags().Changed(ff.flag) {
			changes = append(changes, editor.FieldChange{Field: ff.field, Value: *f.values[ff.field]})
		}
	}
	if f.NotesFile != "" {
		data, err := os.ReadFile(f.NotesFile)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read notes file", err)
		}
		changes = append(changes, editor.FieldChange{Field: editor.FieldNotes, Value: string(data)})
	}
	return changes, nil
}

// validateLicense checks the editable fields of l against the #License
// schema.
func validateLicense(v *schema.Validator, l license.License) error {
	d := editor.NewDraft(l)
	fields := make(map[string]any, len(editor.Fields))
	for _, f := range editor.Fields {
		fields[string(f)] = d.Get(f)
	}
	if err := v.Validate(schema.License, fields); err != nil {
		return WrapExitError(ExitFailure, "invalid license", err)
	}
	return nil
}

// parseCopyField accepts an editable field name or one of the short forms
// name, email and key for the registration fields.
func parseCopyField(name string) (editor.Field, error) {
	switch name {
	case "name":
		return editor.FieldRegisteredToName, nil
	case "email":
		return editor.FieldRegisteredToEmail, nil
	case "key":
		return editor.FieldLicenseKey, nil
	case "url":
		return editor.FieldURL, nil
	}
	f, err := editor.ParseField(name)
	if err != nil {
		return "", NewExitError(ExitCommandError, fmt.Sprintf("unknown field %q", name))
	}
	return f, nil
}
