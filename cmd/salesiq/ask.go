package main

import (
	"fmt"
	"strings"

	"salesiq/internal/pipeline"
	"salesiq/internal/store"

	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// askCmd runs one question through the pipeline and renders the terminal
// state.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question about the sales data",
	Long: `Runs a single question through the full pipeline and prints the result:
a table of rows for factual questions, a narrated business summary for
analytical ones.

Example:
  salesiq ask "How many orders are there?"
  salesiq ask "Give me an executive summary of sales performance"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	orch, s, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	spinner, _ := pterm.DefaultSpinner.Start("Thinking...")
	state, err := orch.Submit(cmd.Context(), question)
	if err != nil {
		spinner.Fail("pipeline fault")
		return err
	}
	spinner.Stop()

	renderState(state)
	return nil
}

func renderState(state *pipeline.State) {
	if state.Failed() {
		pterm.Error.Println(state.Err)
		return
	}

	switch state.Intent {
	case pipeline.IntentFactSQL:
		pterm.FgGray.Println(state.SQL)
		renderRows(state.Results)
	case pipeline.IntentSummary:
		fmt.Print(renderMarkdown(state.FinalAnswer))
	default:
		pterm.Warning.Printfln("could not route question (classifier said %q); try rephrasing", string(state.Intent))
	}
}

func renderRows(rs *store.ResultSet) {
	if rs == nil || len(rs.Rows) == 0 {
		pterm.Info.Println("no rows")
		return
	}

	data := pterm.TableData{rs.Columns}
	for _, row := range rs.Rows {
		rendered := make([]string, len(row))
		for i, v := range row {
			rendered[i] = formatValue(v)
		}
		data = append(data, rendered)
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.FgGray.Printfln("%d row(s)", len(rs.Rows))
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// renderMarkdown renders model prose for the terminal, falling back to the
// raw text if glamour cannot build a renderer.
func renderMarkdown(text string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return text + "\n"
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}
