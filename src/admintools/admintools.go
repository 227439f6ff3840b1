package admintools

import (
	"context"
	"errors"
	"fmt"
	"os"

	"git.shiro.blog/shiro/shiro/src/auth"
	"git.shiro.blog/shiro/shiro/src/cdn"
	"git.shiro.blog/shiro/shiro/src/db"
	"git.shiro.blog/shiro/shiro/src/logging"
	"git.shiro.blog/shiro/shiro/src/models"
	"git.shiro.blog/shiro/shiro/src/website"
	"github.com/spf13/cobra"
)

func init() {
	adminCommand := &cobra.Command{
		Use:   "admin",
		Short: "Miscellaneous admin commands",
	}
	website.WebsiteCommand.AddCommand(adminCommand)

	setAdminCommand := &cobra.Command{
		Use:   "setadmin [email] [true/false]",
		Short: "Grant or revoke a user's admin access",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				fmt.Printf("You must provide an email and true or false.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			email := args[0]
			isAdmin := args[1] == "true"

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			user, err := db.QueryOne[models.User](ctx, conn,
				`SELECT $columns FROM users WHERE lower(email) = lower($1)`,
				email,
			)
			if err != nil {
				if errors.Is(err, db.NotFound) {
					fmt.Printf("No user with email '%s'\n", email)
					os.Exit(1)
				}
				panic(err)
			}

			_, err = conn.Exec(ctx,
				`UPDATE users SET is_admin = $2 WHERE id = $1`,
				user.ID, isAdmin,
			)
			if err != nil {
				panic(err)
			}

			// Admin status is also recomputed from the config allowlist on
			// every login, so make the allowlist agree with this or the next
			// sign-in will undo it.
			fmt.Printf("Set is_admin = %v for %s\n", isAdmin, user.Name)
		},
	}
	adminCommand.AddCommand(setAdminCommand)

	listUsersCommand := &cobra.Command{
		Use:   "listusers",
		Short: "List all users who have logged in",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			users, err := db.Query[models.User](ctx, conn,
				`SELECT $columns FROM users ORDER BY created_at`,
			)
			if err != nil {
				panic(err)
			}

			for _, user := range users {
				email := ""
				if user.Email != nil {
					email = *user.Email
				}
				fmt.Printf("%d\t%s\t%s\tadmin=%v\n", user.ID, user.Name, email, user.IsAdmin)
			}
		},
	}
	adminCommand.AddCommand(listUsersCommand)

	cleanupSessionsCommand := &cobra.Command{
		Use:   "cleanupsessions",
		Short: "Delete expired sessions and pending logins right now",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			n, err := auth.DeleteExpired(ctx, conn)
			if err != nil {
				panic(err)
			}
			fmt.Printf("Deleted %d expired rows\n", n)
		},
	}
	adminCommand.AddCommand(cleanupSessionsCommand)

	purgeCommand := &cobra.Command{
		Use:   "purgecdn [path]...",
		Short: "Manually purge paths from the CDN cache",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				fmt.Printf("You must provide at least one path.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			ctx := logging.AttachLoggerToContext(logging.GlobalLogger(), context.Background())
			cdn.PurgePaths(ctx, args...)
			fmt.Printf("Requested purge of %d paths\n", len(args))
		},
	}
	adminCommand.AddCommand(purgeCommand)
}
