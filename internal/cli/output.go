package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/avelinsk/quizflow/internal/quiz"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// PrintQuizzes outputs quizzes in the specified format
func PrintQuizzes(quizzes []quiz.Quiz, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(quizzes)
	case FormatYAML:
		return printYAML(quizzes)
	case FormatTable:
		return printQuizTable(quizzes)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintQuestions outputs a quiz's question list in the specified format
func PrintQuestions(questions []quiz.Question, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(questions)
	case FormatYAML:
		return printYAML(questions)
	case FormatTable:
		return printQuestionTable(questions)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintRules outputs a quiz's insight rules in the specified format
func PrintRules(rules []quiz.Rule, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(map[string][]quiz.Rule{"rules": rules})
	case FormatYAML:
		return printYAML(rules)
	case FormatTable:
		return printRuleTable(rules)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	// Wrap quiz slices in a "quizzes" key for consistency with the API
	if quizzes, ok := data.([]quiz.Quiz); ok {
		return encoder.Encode(map[string][]quiz.Quiz{"quizzes": quizzes})
	}
	return encoder.Encode(data)
}

func printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printQuizTable(quizzes []quiz.Quiz) error {
	table := tablewriter.NewWriter(os.Stdout)

	table.Header("Slug", "Title", "Description", "Created At")

	for _, q := range quizzes {
		description := q.Description
		if len(description) > 40 {
			description = description[:37] + "..."
		}

		table.Append(
			q.Slug,
			q.Title,
			description,
			q.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	return table.Render()
}

func printRuleTable(rules []quiz.Rule) error {
	table := tablewriter.NewWriter(os.Stdout)

	table.Header("ID", "Condition", "Insight")

	for _, r := range rules {
		cond, err := json.Marshal(r.Condition)
		if err != nil {
			return fmt.Errorf("serialize condition for rule %s: %w", r.ID, err)
		}
		condText := string(cond)
		if len(condText) > 60 {
			condText = condText[:57] + "..."
		}
		insight := r.Insight
		if len(insight) > 40 {
			insight = insight[:37] + "..."
		}

		table.Append(r.ID, condText, insight)
	}

	return table.Render()
}

func printQuestionTable(questions []quiz.Question) error {
	table := tablewriter.NewWriter(os.Stdout)

	table.Header("#", "Type", "Text", "Options")

	for i, q := range questions {
		text := q.Text
		if len(text) > 50 {
			text = text[:47] + "..."
		}

		table.Append(
			fmt.Sprintf("%d", i),
			string(q.Type),
			text,
			fmt.Sprintf("%d", len(q.Options)),
		)
	}

	return table.Render()
}
