package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go-wigstore-api/internal/cache"
	"go-wigstore-api/internal/catalog"
	"go-wigstore-api/internal/config"
	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/repository"
	"go-wigstore-api/internal/service"
	"go-wigstore-api/internal/ws"
	"go-wigstore-api/pkg/database"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	fileFlag     = "file"
	emailFlag    = "email"
	passwordFlag = "password"
	nameFlag     = "name"
	roleFlag     = "role"
)

// openDB connects and migrates; every command needs the schema in place.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL, false)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func newMigrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the store tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newSeedCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load categories, privileges, roles and the admin user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := newSeeder(db).Run(cmd.Context(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
			return nil
		},
	}
}

func newSeeder(db *gorm.DB) *service.Seeder {
	roleRepo := repository.NewRoleRepo(db)
	return &service.Seeder{
		Categories: repository.NewCategoryRepo(db),
		Privileges: repository.NewPrivilegeRepo(db),
		Roles:      roleRepo,
		Users:      service.NewUserService(repository.NewUserRepo(db), roleRepo),
	}
}

func newImportCommand(cfg *config.Config) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		fileFlag: &cobraflags.StringFlag{
			Name:  fileFlag,
			Value: "products.json",
			Usage: "JSON array of products to create",
		},
	}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk load products from a JSON file",
		Long: `Bulk load products from a JSON array in the admin create format.

Products whose SKU already exists are skipped, so an import can be re-run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(flags[fileFlag].GetString())
			if err != nil {
				return err
			}
			var reqs []service.CreateProductRequest
			if err := json.Unmarshal(raw, &reqs); err != nil {
				return fmt.Errorf("parse %s: %w", flags[fileFlag].GetString(), err)
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx := cmd.Context()
			if err := newSeeder(db).Run(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
				return err
			}
			idx, err := catalog.LoadCategoryIndex(ctx, repository.NewCategoryRepo(db))
			if err != nil {
				return err
			}
			catalogService := service.NewCatalogService(repository.NewProductRepo(db), idx, cache.NewMemoryStore(), time.Minute, ws.Discard)

			report, err := catalogService.ImportProducts(ctx, reqs, service.System)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created %d, skipped %d, failed %d\n", report.Created, report.Skipped, len(report.Failed))
			for _, f := range report.Failed {
				fmt.Fprintf(out, "  #%d %s: %s\n", f.Index, f.SKU, f.Error)
			}
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newResetPasswordCommand(cfg *config.Config) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		emailFlag: &cobraflags.StringFlag{
			Name:  emailFlag,
			Value: cfg.AdminEmail,
			Usage: "Account to reset",
		},
		passwordFlag: &cobraflags.StringFlag{
			Name:  passwordFlag,
			Value: "",
			Usage: "New password (required, at least 6 characters)",
		},
	}
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for a staff account and end its session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email := flags[emailFlag].GetString()
			password := flags[passwordFlag].GetString()
			if password == "" {
				return fmt.Errorf("--%s is required", passwordFlag)
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			users := service.NewUserService(repository.NewUserRepo(db), repository.NewRoleRepo(db))
			if err := users.ResetPassword(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password for %s has been reset\n", email)
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newCreateUserCommand(cfg *config.Config) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		emailFlag: &cobraflags.StringFlag{
			Name:  emailFlag,
			Value: "",
			Usage: "Login email (required)",
		},
		passwordFlag: &cobraflags.StringFlag{
			Name:  passwordFlag,
			Value: "",
			Usage: "Initial password (required)",
		},
		nameFlag: &cobraflags.StringFlag{
			Name:  nameFlag,
			Value: "",
			Usage: "Full name",
		},
		roleFlag: &cobraflags.StringFlag{
			Name:  roleFlag,
			Value: model.RoleStaff,
			Usage: "Role code (STORE_ADMIN or STAFF)",
		},
	}
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email := flags[emailFlag].GetString()
			if email == "" {
				return fmt.Errorf("--%s is required", emailFlag)
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx := cmd.Context()
			seeder := newSeeder(db)
			if err := seeder.Run(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
				return err
			}
			_, created, err := seeder.Users.EnsureUser(ctx, email, flags[passwordFlag].GetString(), flags[nameFlag].GetString(), flags[roleFlag].GetString())
			if err != nil {
				return err
			}
			if !created {
				return fmt.Errorf("user %s already exists", email)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", email, flags[roleFlag].GetString())
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}
