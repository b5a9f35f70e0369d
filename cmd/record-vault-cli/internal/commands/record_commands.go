package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/MGTheTrain/record-vault/internal/app"
	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/pkg/strutil"

	"github.com/spf13/cobra"
)

// defaultChangesURL is the change stream of a locally running REST server
const defaultChangesURL = "ws://localhost:8080/api/v1/rv/changes"

// RecordCommandHandler encapsulates logic for handling company and user operations via CLI.
type RecordCommandHandler struct{}

// ListCompaniesCmd prints every company; with --follow it reprints on every change
func (commandHandler *RecordCommandHandler) ListCompaniesCmd(cmd *cobra.Command, _ []string) {
	s, err := openSession(cmd)
	if err != nil {
		fail(cmd, nil, err)
		return
	}
	defer s.Close()

	follow, _ := cmd.Flags().GetBool("follow")
	if !follow {
		companies, err := s.companies.List(cmd.Context())
		if err != nil {
			fail(cmd, s.logger, err)
			return
		}
		if err := renderCompanies(cmd, companies); err != nil {
			fail(cmd, s.logger, err)
		}
		return
	}

	view := app.NewCompaniesView(s.companies, s.shell.Changes(), s.notifications, s.logger)
	err = followView(cmd, s, view, func() error { return renderCompanies(cmd, view.Rows()) })
	if err != nil {
		fail(cmd, s.logger, err)
	}
}

// AddCompanyCmd inserts a company with a generated name
func (commandHandler *RecordCommandHandler) AddCompanyCmd(cmd *cobra.Command, _ []string) {
	s, err := openSession(cmd)
	if err != nil {
		fail(cmd, nil, err)
		return
	}
	defer s.Close()

	company, err := s.companies.Add(cmd.Context())
	if err != nil {
		fail(cmd, s.logger, err)
		return
	}
	if err := renderCompanies(cmd, []*records.Company{company}); err != nil {
		fail(cmd, s.logger, err)
	}
}

// RemoveCompanyCmd deletes the company with the given id
func (commandHandler *RecordCommandHandler) RemoveCompanyCmd(cmd *cobra.Command, args []string) {
	id, err := strutil.ParseID(args[0])
	if err != nil {
		fail(cmd, nil, err)
		return
	}

	s, err := openSession(cmd)
	if err != nil {
		fail(cmd, nil, err)
		return
	}
	defer s.Close()

	if err := s.companies.Remove(cmd.Context(), id); err != nil {
		fail(cmd, s.logger, err)
		return
	}
	cmd.Printf("%s %d\n", app.MsgRemoveCompanySuccess, id)
}

// ListUsersCmd prints every user with its company; with --follow it reprints on every change
func (commandHandler *RecordCommandHandler) ListUsersCmd(cmd *cobra.Command, _ []string) {
	s, err := openSession(cmd)
	if err != nil {
		fail(cmd, nil, err)
		return
	}
	defer s.Close()

	follow, _ := cmd.Flags().GetBool("follow")
	if !follow {
		users, err := s.users.List(cmd.Context())
		if err != nil {
			fail(cmd, s.logger, err)
			return
		}
		if err := renderUsers(cmd, users); err != nil {
			fail(cmd, s.logger, err)
		}
		return
	}

	view := app.NewUsersView(s.users, s.shell.Changes(), s.notifications, s.logger)
	err = followView(cmd, s, view, func() error { return renderUsers(cmd, view.Rows()) })
	if err != nil {
		fail(cmd, s.logger, err)
	}
}

// AddUserCmd inserts a user with generated data
func (commandHandler *RecordCommandHandler) AddUserCmd(cmd *cobra.Command, _ []string) {
	s, err := openSession(cmd)
	if err != nil {
		fail(cmd, nil, err)
		return
	}
	defer s.Close()

	user, err := s.users.Add(cmd.Context())
	if err != nil {
		fail(cmd, s.logger, err)
		return
	}
	row, err := withCompany(cmd.Context(), s.shell, user)
	if err != nil {
		fail(cmd, s.logger, err)
		return
	}
	if err := renderUsers(cmd, []records.UserWithCompany{row}); err != nil {
		fail(cmd, s.logger, err)
	}
}

// withCompany joins user with the company it references, if that company exists
func withCompany(ctx context.Context, provider records.StoreProvider, user *records.User) (records.UserWithCompany, error) {
	if user.CompanyID == nil {
		return records.UserWithCompany{User: *user}, nil
	}

	store, err := provider.Store()
	if err != nil {
		return records.UserWithCompany{}, err
	}
	companies, err := store.CompaniesByIDs(ctx, []int64{*user.CompanyID})
	if err != nil {
		return records.UserWithCompany{}, err
	}
	return records.JoinCompanies([]*records.User{user}, companies)[0], nil
}

// RemoveUserCmd deletes the user with the given id
func (commandHandler *RecordCommandHandler) RemoveUserCmd(cmd *cobra.Command, args []string) {
	id, err := strutil.ParseID(args[0])
	if err != nil {
		fail(cmd, nil, err)
		return
	}

	s, err := openSession(cmd)
	if err != nil {
		fail(cmd, nil, err)
		return
	}
	defer s.Close()

	if err := s.users.Remove(cmd.Context(), id); err != nil {
		fail(cmd, s.logger, err)
		return
	}
	cmd.Printf("%s %d\n", app.MsgRemoveUserSuccess, id)
}

// liveView is a mounted, self-refreshing listing
type liveView interface {
	Mount(ctx context.Context) error
	Updates() <-chan struct{}
	Unmount()
}

// followView mounts view, bridges the remote change stream into the local feed and
// prints the rows after every refresh until the command is interrupted
func followView(cmd *cobra.Command, s *session, view liveView, print func() error) error {
	ctx := cmd.Context()

	if url, _ := cmd.Flags().GetString("url"); url != "" {
		bridgeCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go bridgeRemoteChanges(bridgeCtx, url, s.shell.Changes(), s.logger)
	}

	if err := view.Mount(ctx); err != nil {
		return err
	}
	defer view.Unmount()

	for {
		select {
		case <-view.Updates():
			if err := print(); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func renderCompanies(cmd *cobra.Command, companies []*records.Company) error {
	if companies == nil {
		companies = []*records.Company{}
	}
	return render(cmd, companies, func(w io.Writer) error {
		if _, err := fmt.Fprintln(w, "ID\tNAME"); err != nil {
			return err
		}
		for _, c := range companies {
			if _, err := fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name); err != nil {
				return err
			}
		}
		return nil
	})
}

func renderUsers(cmd *cobra.Command, users []records.UserWithCompany) error {
	if users == nil {
		users = []records.UserWithCompany{}
	}
	return render(cmd, users, func(w io.Writer) error {
		if _, err := fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCOMPANY"); err != nil {
			return err
		}
		for _, u := range users {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.CompanyName()); err != nil {
				return err
			}
		}
		return nil
	})
}

// InitRecordCommands registers the companies and users command groups
func InitRecordCommands(rootCmd *cobra.Command) error {
	handler := &RecordCommandHandler{}

	var companiesCmd = &cobra.Command{
		Use:   "companies",
		Short: "List, add and remove companies",
	}

	var listCompaniesCmd = &cobra.Command{
		Use:   "list",
		Short: "List companies, newest first",
		Run:   handler.ListCompaniesCmd,
	}
	listCompaniesCmd.Flags().BoolP("follow", "f", false, "Keep listing after every change")
	listCompaniesCmd.Flags().StringP("url", "", defaultChangesURL, "Change stream to follow while --follow is set; empty for local changes only")
	companiesCmd.AddCommand(listCompaniesCmd)

	companiesCmd.AddCommand(&cobra.Command{
		Use:   "add",
		Short: "Add a company with a generated name",
		Run:   handler.AddCompanyCmd,
	})

	companiesCmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a company",
		Args:  cobra.ExactArgs(1),
		Run:   handler.RemoveCompanyCmd,
	})
	rootCmd.AddCommand(companiesCmd)

	var usersCmd = &cobra.Command{
		Use:   "users",
		Short: "List, add and remove users",
	}

	var listUsersCmd = &cobra.Command{
		Use:   "list",
		Short: "List users with their company, newest first",
		Run:   handler.ListUsersCmd,
	}
	listUsersCmd.Flags().BoolP("follow", "f", false, "Keep listing after every change")
	listUsersCmd.Flags().StringP("url", "", defaultChangesURL, "Change stream to follow while --follow is set; empty for local changes only")
	usersCmd.AddCommand(listUsersCmd)

	usersCmd.AddCommand(&cobra.Command{
		Use:   "add",
		Short: "Add a user with generated data, assigned to a random company",
		Run:   handler.AddUserCmd,
	})

	usersCmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a user",
		Args:  cobra.ExactArgs(1),
		Run:   handler.RemoveUserCmd,
	})
	rootCmd.AddCommand(usersCmd)

	return nil
}
