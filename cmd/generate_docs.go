package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"
	"text/template"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/meetscheduler/internal/tools/meeting_tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for the MCP tools served by
"serve --transport stdio".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerateDocs(cmd.OutOrStdout(), cmd.ErrOrStderr(), outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(stdout, stderr io.Writer, outputFile string) error {
	var sb strings.Builder
	if err := toolsDocTemplate.Execute(&sb, newToolsDoc(meeting_tools.Tools())); err != nil {
		return fmt.Errorf("failed to render tool documentation: %w", err)
	}

	if outputFile == "" {
		_, err := io.WriteString(stdout, sb.String())
		return err
	}
	if err := os.WriteFile(outputFile, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(stderr, "Documentation written to: %s\n", outputFile)
	return nil
}

type toolsDoc struct {
	Sections []toolSection
}

type toolSection struct {
	Title  string
	Anchor string
	Tools  []toolDoc
}

type toolDoc struct {
	Name        string
	Description string
	Args        []argDoc
}

type argDoc struct {
	Name        string
	Required    bool
	Description string
}

// newToolsDoc groups tools into sections by the prefix before the first
// underscore, sorted by section title and then tool name.
func newToolsDoc(tools []mcp.Tool) toolsDoc {
	bySection := make(map[string][]toolDoc)
	for _, tool := range tools {
		title := sectionTitle(tool.Name)
		bySection[title] = append(bySection[title], newToolDoc(tool))
	}

	doc := toolsDoc{}
	for title, docs := range bySection {
		sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
		doc.Sections = append(doc.Sections, toolSection{
			Title:  title,
			Anchor: strings.ToLower(strings.ReplaceAll(title, " ", "-")),
			Tools:  docs,
		})
	}
	sort.Slice(doc.Sections, func(i, j int) bool { return doc.Sections[i].Title < doc.Sections[j].Title })
	return doc
}

func sectionTitle(toolName string) string {
	prefix, _, _ := strings.Cut(toolName, "_")
	switch prefix {
	case "meeting":
		return "Meeting Tools"
	default:
		return "Other"
	}
}

func newToolDoc(tool mcp.Tool) toolDoc {
	doc := toolDoc{Name: tool.Name, Description: tool.Description}

	names := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop, ok := tool.InputSchema.Properties[name].(map[string]any)
		if !ok {
			continue
		}
		desc, _ := prop["description"].(string)
		if desc == "" {
			typ, _ := prop["type"].(string)
			if typ == "" {
				typ = "any"
			}
			desc = typ + " parameter"
		}
		doc.Args = append(doc.Args, argDoc{
			Name:        name,
			Required:    slices.Contains(tool.InputSchema.Required, name),
			Description: desc,
		})
	}
	return doc
}

var toolsDocTemplate = template.Must(template.New("tools").Parse(`# MCP Tools Reference

Tools available when running meetscheduler as an MCP server (` + "`meetscheduler serve --transport stdio`" + `).

**Note:** This documentation is automatically generated from the tool definitions.

## Table of Contents

{{range .Sections}}- [{{.Title}}](#{{.Anchor}})
{{end}}
## Authentication

Meeting tools act on behalf of the server's Google session:

- ` + "`--access-token`" + ` (or ` + "`MEETSCHEDULER_ACCESS_TOKEN`" + `) uses a fixed access token
- otherwise the OAuth token file (` + "`--token-file`" + `) is used and refreshed when client credentials are configured
{{range .Sections}}
## {{.Title}}
{{range .Tools}}
### {{.Name}}
{{if .Description}}
{{.Description}}
{{end}}{{if .Args}}
**Arguments:**
{{range .Args}}- ` + "`{{.Name}}`" + ` ({{if .Required}}required{{else}}optional{{end}}): {{.Description}}
{{end}}{{end}}{{end}}{{end}}`))
