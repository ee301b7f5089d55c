// Command gradebook manages student records from the command line.
//
//	gradebook bootstrap
//	gradebook add -id S1 -name "Ann Lee" -username ann -password secret
//	gradebook grade -id S1 -subject Math -score 95
//	gradebook attend -id S1 -date 2024-01-05 -status present
//	gradebook list
//	gradebook show -id S1
//	gradebook login -username ann -password secret
//	gradebook import -file roster.xlsx
//	gradebook export -file gradebook.xlsx
//
// Configuration comes from the environment and an optional .env file; see
// the config package for the keys.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/alem-hub/gradebook/config"
	"github.com/alem-hub/gradebook/internal/app"
	"github.com/alem-hub/gradebook/internal/application/records"
	"github.com/alem-hub/gradebook/internal/domain/account"
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/pkg/timeutil"
)

// errUsage is returned for a missing or unknown command.
var errUsage = errors.New("usage: gradebook <bootstrap|add|grade|attend|list|show|login|import|export> [flags]")

// errRejected marks a request that was validated and refused.
var errRejected = errors.New("rejected")

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "gradebook: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	if err := config.LoadEnvFile(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(out)
	exec := cmd(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, app.NewLogger(cfg))
	if err != nil {
		return err
	}
	defer a.Close()

	return exec(ctx, a, out)
}

// rejection turns a validation failure into errRejected carrying the reason
// and passes every other error through.
func rejection(err error) error {
	if err == nil || !shared.IsValidation(err) || shared.IsStorage(err) {
		return err
	}
	return fmt.Errorf("%w: %v", errRejected, err)
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// command declares its flags on fs and returns the action to run once the
// flags are parsed.
type command func(fs *flag.FlagSet) func(ctx context.Context, a *app.App, out io.Writer) error

var commands = map[string]command{
	"bootstrap": bootstrapCmd,
	"add":       addCmd,
	"grade":     gradeCmd,
	"attend":    attendCmd,
	"list":      listCmd,
	"show":      showCmd,
	"login":     loginCmd,
	"import":    importCmd,
	"export":    exportCmd,
}

func bootstrapCmd(*flag.FlagSet) func(context.Context, *app.App, io.Writer) error {
	return func(_ context.Context, _ *app.App, out io.Writer) error {
		_, err := fmt.Fprintln(out, "storage ready")
		return err
	}
}

func addCmd(fs *flag.FlagSet) func(context.Context, *app.App, io.Writer) error {
	id := fs.String("id", "", "student id")
	name := fs.String("name", "", "full name")
	username := fs.String("username", "", "login name")
	password := fs.String("password", "", "initial password")

	return func(ctx context.Context, a *app.App, out io.Writer) error {
		err := a.Records.HandleAddStudent(ctx, records.AddStudentCommand{
			StudentID: *id, Name: *name, Username: *username, Password: *password,
		})
		if err := rejection(err); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "student %s added\n", *id)
		return err
	}
}

func gradeCmd(fs *flag.FlagSet) func(context.Context, *app.App, io.Writer) error {
	id := fs.String("id", "", "student id")
	subject := fs.String("subject", "", "subject name")
	score := fs.Int("score", -1, "score 0-100")

	return func(ctx context.Context, a *app.App, out io.Writer) error {
		err := a.Records.HandleAssignGrade(ctx, records.AssignGradeCommand{
			StudentID: *id, Subject: *subject, Score: *score,
		})
		if err := rejection(err); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "grade %s=%d recorded for %s\n", *subject, *score, *id)
		return err
	}
}

func attendCmd(fs *flag.FlagSet) func(context.Context, *app.App, io.Writer) error {
	id := fs.String("id", "", "student id")
	date := fs.String("date", timeutil.Today(), "date, YYYY-MM-DD")
	status := fs.String("status", "", "Present or Absent")

	return func(ctx context.Context, a *app.App, out io.Writer) error {
		err := a.Records.HandleMarkAttendance(ctx, records.MarkAttendanceCommand{
			StudentID: *id, Date: *date, Status: *status,
		})
		if err := rejection(err); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "attendance on %s recorded for %s\n", *date, *id)
		return err
	}
}

func listCmd(*flag.FlagSet) func(context.Context, *app.App, io.Writer) error {
	return func(ctx context.Context, a *app.App, out io.Writer) error {
		students, err := a.Records.GetAllStudents(ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tGRADES\tAVERAGE\tATTENDANCE")
		for _, s := range students {
			st := s.Stats()
			avg, rate := "-", "-"
			if st.HasGrades() {
				avg = fmt.Sprintf("%.2f", st.AverageScore)
			}
			if st.HasAttendance() {
				rate = fmt.Sprintf("%.0f%%", st.AttendanceRate)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", s.StudentID, s.Name, s.Username, st.GradeCount, avg, rate)
		}
		return tw.Flush()
	}
}

func showCmd(fs *flag.FlagSet) func(context.Context, *app.App, io.Writer) error {
	id := fs.String("id", "", "student id")

	return func(ctx context.Context, a *app.App, out io.Writer) error {
		s, found, err := a.Records.GetByStudentID(ctx, *id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: student not found with id %q", errRejected, *id)
		}
		_, err = io.WriteString(out, a.Records.BuildSummary(s))
		return err
	}
}

func loginCmd(fs *flag.FlagSet) func(context.Context, *app.App, io.Writer) error {
	username := fs.String("username", "", "login name")
	password := fs.String("password", "", "password")
	role := fs.String("role", "any", "admin, student or any")

	return func(ctx context.Context, a *app.App, out io.Writer) error {
		var (
			p   account.Principal
			ok  bool
			err error
		)
		switch *role {
		case string(account.RoleAdmin):
			p, ok, err = a.Auth.AuthenticateAdmin(ctx, *username, *password)
		case string(account.RoleStudent):
			p, ok, err = a.Auth.AuthenticateStudent(ctx, *username, *password)
		case "any":
			p, ok, err = a.Auth.Authenticate(ctx, *username, *password)
		default:
			return fmt.Errorf("%w: unknown role %q", errUsage, *role)
		}
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %w", errRejected, shared.ErrInvalidCredentials)
		}

		if p.IsStudent() {
			_, err = fmt.Fprintf(out, "signed in as student %s (%s)\n", p.Username, p.Student.StudentID)
		} else {
			_, err = fmt.Fprintf(out, "signed in as admin %s\n", p.Username)
		}
		return err
	}
}

func importCmd(fs *flag.FlagSet) func(context.Context, *app.App, io.Writer) error {
	path := fs.String("file", "", "roster workbook (.xlsx)")

	return func(ctx context.Context, a *app.App, out io.Writer) error {
		f, err := os.Open(*path)
		if err != nil {
			return err
		}
		defer f.Close()

		result, err := a.Records.ImportRoster(ctx, f)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "imported %d, skipped %d\n", result.Imported, len(result.Skipped))
		for _, s := range result.Skipped {
			fmt.Fprintf(out, "  row %d: %v\n", s.Row, s.Reason)
		}
		return nil
	}
}

func exportCmd(fs *flag.FlagSet) func(context.Context, *app.App, io.Writer) error {
	path := fs.String("file", "gradebook.xlsx", "output workbook (.xlsx)")

	return func(ctx context.Context, a *app.App, out io.Writer) error {
		f, err := os.Create(*path)
		if err != nil {
			return err
		}

		if err := a.Records.ExportGradebook(ctx, f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		_, err = fmt.Fprintf(out, "gradebook written to %s\n", *path)
		return err
	}
}
