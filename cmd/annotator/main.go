package main

import (
	"fmt"
	"os"
)

func main() {
	registry := NewCommandRegistry()
	registerCommands(registry)

	if err := registry.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func registerCommands(r *CommandRegistry) {
	r.Register(&Command{
		Name:        "me",
		Description: "Show the logged-in user",
		Usage:       "annotator me",
		Run:         meCommand,
	})

	r.Register(&Command{
		Name:        "users",
		Description: "List all users",
		Usage:       "annotator users",
		Run:         usersCommand,
	})

	r.Register(&Command{
		Name:        "comments",
		Description: "List the comments of a project, one page at a time",
		Usage:       "annotator comments <project> [--limit N] [--offset N] [--q text] [--sort field] [--desc]",
		Examples: []string{
			"annotator comments 3",
			"annotator comments 3 --limit 50 --sort created_at --desc",
		},
		Run: commentsCommand,
	})

	r.Register(&Command{
		Name:        "compare",
		Description: "Compare the annotations two users made on a document",
		Usage:       "annotator compare <project> <document> <user1> <user2>",
		Examples:    []string{"annotator compare 3 120 5 8"},
		Run:         compareCommand,
	})

	r.Register(&Command{
		Name:        "labels",
		Description: "Export the label types of a project as JSON",
		Usage:       "annotator labels <project> [--kind category-types|span-types|relation-types] [--out file]",
		Examples:    []string{"annotator labels 3 --kind span-types --out labels.json"},
		Run:         labelsCommand,
	})

	r.Register(&Command{
		Name:        "history",
		Description: "Export the annotation history of a project as a zip archive",
		Usage:       "annotator history <project> [--dataset name] [--status All] [--out file]",
		Examples:    []string{"annotator history 3 --dataset train.csv"},
		Run:         historyCommand,
	})

	r.Register(&Command{
		Name:        "votes",
		Description: "Show the cumulative label votes of a project",
		Usage:       "annotator votes <project> [--version N] [--progress P]",
		Run:         votesCommand,
	})

	r.Register(&Command{
		Name:        "discrepancies",
		Description: "List examples where annotators disagree",
		Usage:       "annotator discrepancies <project> [--threshold N] [--all]",
		Run:         discrepanciesCommand,
	})
}
