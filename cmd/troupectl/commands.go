package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/ZanzyTHEbar/troupe-insights/internal/auth"
	"github.com/ZanzyTHEbar/troupe-insights/internal/dashboard"
	"github.com/ZanzyTHEbar/troupe-insights/internal/database"
	"github.com/ZanzyTHEbar/troupe-insights/internal/importer"
	"github.com/ZanzyTHEbar/troupe-insights/internal/report"
)

// env is the storage a command runs against
type env struct {
	db   *database.DB
	repo *database.Repository
	dash *dashboard.Service
}

func (e *env) close() {
	e.dash.Close()
	e.db.Close()
}

func open(c *cli.Context) (*env, error) {
	db, err := database.NewDB(c.Context, database.Config{
		Driver:  c.String("driver"),
		DataDir: c.String("data-dir"),
		URL:     c.String("database-url"),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := database.NewRepository(db)
	dash := dashboard.NewService(repo, dashboard.Options{})
	if err := dash.Load(c.Context); err != nil {
		dash.Close()
		db.Close()
		return nil, err
	}
	return &env{db: db, repo: repo, dash: dash}, nil
}

// withEnv opens storage around action
func withEnv(action func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := open(c)
		if err != nil {
			return err
		}
		defer e.close()
		return action(c, e)
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "import a CSV or XLSX vote export as the latest upload",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "upload description"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("import needs a file argument", 2)
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			parsed, err := importer.Parse(path, f)
			if err != nil {
				return err
			}
			activities, err := importer.NewValidator().Prepare(parsed)
			if err != nil {
				return err
			}

			upload, err := e.dash.Import(c.Context, filepath.Base(path), c.String("description"), activities)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Imported %s activities as upload %s\n",
				humanize.Comma(int64(upload.TotalActivities)), upload.ID)
			return nil
		}),
	}
}

func uploadsCommand() *cli.Command {
	return &cli.Command{
		Name:  "uploads",
		Usage: "list or delete uploads",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list uploads, newest first",
				Action: withEnv(func(c *cli.Context, e *env) error {
					uploads, err := e.dash.Uploads(c.Context)
					if err != nil {
						return err
					}
					if len(uploads) == 0 {
						fmt.Fprintln(c.App.Writer, "No uploads")
						return nil
					}

					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tFILE\tACTIVITIES\tUPLOADED")
					for _, u := range uploads {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
							u.ID, u.FileName, humanize.Comma(int64(u.TotalActivities)), humanize.Time(u.UploadedAt))
					}
					return tw.Flush()
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete an upload and its activities",
				ArgsUsage: "<id>",
				Action: withEnv(func(c *cli.Context, e *env) error {
					id := c.Args().First()
					if id == "" {
						return cli.Exit("delete needs an upload id", 2)
					}
					if err := e.dash.DeleteUpload(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Deleted upload %s\n", id)
					return nil
				}),
			},
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print totals, the top activities and category averages of the latest upload",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "top", Value: 5, Usage: "number of top activities"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			ds := e.dash.Dataset()
			if ds.Len() == 0 {
				fmt.Fprintln(c.App.Writer, "No activities")
				return nil
			}

			w := c.App.Writer
			totals := ds.TotalStats()
			patterns := ds.VotingPatterns()
			fmt.Fprintf(w, "Activities: %s\n", humanize.Comma(int64(totals.TotalActivities)))
			fmt.Fprintf(w, "Votes:      %s (love %s, like %s, pass %s)\n",
				humanize.Comma(int64(patterns.TotalVotes)),
				humanize.Comma(int64(totals.TotalLoveVotes)),
				humanize.Comma(int64(totals.TotalLikeVotes)),
				humanize.Comma(int64(totals.TotalPassVotes)))
			fmt.Fprintf(w, "Avg score:  %s\n", humanize.FtoaWithDigits(totals.AvgScore, 2))
			if snap := e.dash.Snapshot(); snap.Upload != nil {
				fmt.Fprintf(w, "Uploaded:   %s\n", humanize.Time(snap.Upload.UploadedAt))
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\nRANK\tACTIVITY\tCATEGORY\tSCORE")
			for i, a := range ds.TopActivities(c.Int("top")) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", humanize.Ordinal(i+1), a.Name, a.Category, humanize.Ftoa(a.Score))
			}
			fmt.Fprintln(tw, "\nCATEGORY\tCOUNT\tAVG SCORE\t")
			for _, cs := range ds.CategoryStats() {
				fmt.Fprintf(tw, "%s\t%d\t%s\t\n", cs.Category, cs.Count, humanize.FtoaWithDigits(cs.AvgScore, 2))
			}
			return tw.Flush()
		}),
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the analytics workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "report.xlsx", Usage: "output path"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			out := c.String("out")
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.Write(f, e.dash.Summary(), time.Now().UTC()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			info, err := os.Stat(out)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Wrote %s (%s)\n", out, humanize.Bytes(uint64(info.Size())))
			return nil
		}),
	}
}

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "admin account maintenance",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create the default admin account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Usage:   "initial password",
						EnvVars: []string{"ADMIN_DEFAULT_PASSWORD"},
					},
				},
				Action: withEnv(func(c *cli.Context, e *env) error {
					// init issues no session, so any signing secret will do
					svc := auth.NewService(e.repo, "troupectl", 0)
					user, created, err := svc.EnsureAdmin(c.Context, c.String("password"))
					if err != nil {
						return err
					}
					if created {
						fmt.Fprintf(c.App.Writer, "Created admin user %q\n", user.Username)
					} else {
						fmt.Fprintf(c.App.Writer, "Admin user %q already exists\n", user.Username)
					}
					return nil
				}),
			},
		},
	}
}
