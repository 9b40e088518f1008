package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

// errReported marks a failure whose message has already been printed.
var errReported = errors.New("command failed")

func outcome(ok bool) error {
	if !ok {
		return errReported
	}
	return nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Display all books",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			a.handleListBooks()
			return nil
		}),
	}
}

func newBorrowCmd(a *app) *cobra.Command {
	var (
		author string
		days   int
	)
	cmd := &cobra.Command{
		Use:   "borrow <title> <borrower>",
		Short: "Lend a copy of a book",
		Args:  cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			return outcome(a.borrow(args[0], author, args[1], days))
		}),
	}
	cmd.Flags().StringVar(&author, "author", "", "author, needed when the title is held under several authors")
	cmd.Flags().IntVar(&days, "days", 0, "loan period in days (default: --loan-days)")
	return cmd
}

func newReturnCmd(a *app) *cobra.Command {
	var author string
	cmd := &cobra.Command{
		Use:   "return <title> <borrower>",
		Short: "Take back a borrowed copy",
		Args:  cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			return outcome(a.giveBack(args[0], author, args[1]))
		}),
	}
	cmd.Flags().StringVar(&author, "author", "", "author, needed when the title is held under several authors")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var copies int
	cmd := &cobra.Command{
		Use:   "add <title> <author>",
		Short: "Add a new book or more copies of an existing one",
		Args:  cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			return outcome(a.add(strings.TrimSpace(args[0]), strings.TrimSpace(args[1]), copies))
		}),
	}
	cmd.Flags().IntVar(&copies, "copies", 1, "number of copies to add")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find books by title or author substring",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			a.search(strings.Join(args, " "))
			return nil
		}),
	}
}

func newOverdueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List loans past their due date",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			printOverdue(a.out, a.mgr.Overdue())
			return nil
		}),
	}
}
