package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/assokit/assokit/pkg/logger"
	"github.com/assokit/assokit/pkg/permission"
	"github.com/assokit/assokit/pkg/rbac"
	"github.com/assokit/assokit/pkg/rbac/pgstore"
)

func runBootstrap(ctx context.Context, cfg appConfig, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("bootstrap", flag.ContinueOnError)
	var (
		associationID = fs.String("association", "", "Association id (required)")
		adminUser     = fs.String("admin-user", "", "User id of the first administrator (required)")
		adminMember   = fs.String("admin-member", "", "Member id of the administrator; generated when empty")
		catalogFile   = fs.String("catalog", "", "YAML permission catalog; the default catalog when empty")
		rolesFile     = fs.String("roles", "", "YAML role seeds; the default bureau when empty")
	)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *associationID == "" || *adminUser == "" {
		fs.Usage()
		return errUsage
	}

	seed := rbac.TenantSeed{
		AssociationID: *associationID,
		Admin:         rbac.MemberInput{ID: *adminMember, UserID: *adminUser},
	}
	if *catalogFile != "" {
		catalog, err := loadFile(*catalogFile, permission.LoadYAML)
		if err != nil {
			return err
		}
		seed.Catalog = catalog
	}
	if *rolesFile != "" {
		roles, err := loadFile(*rolesFile, rbac.LoadRoleSeedsYAML)
		if err != nil {
			return err
		}
		seed.Roles = roles
	}

	pool, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	engine := rbac.New(pgstore.New(pool), rbac.WithLogger(log))
	t, err := engine.Bootstrap(ctx, seed)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "Association ready",
		logger.AssociationID(t.AssociationID),
		logger.MemberID(t.AdminMemberID),
		slog.Int("permissions", t.Roles.AvailablePermissions.Len()),
	)
	return nil
}

func runCompleteness(ctx context.Context, cfg appConfig, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("completeness", flag.ContinueOnError)
	associationID := fs.String("association", "", "Association id (required)")
	if err := fs.Parse(args); err != nil || *associationID == "" {
		return errUsage
	}

	pool, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	report, err := rbac.New(pgstore.New(pool)).Completeness(ctx, *associationID)
	if err != nil {
		return err
	}
	if report.Complete() {
		fmt.Println("All mandatory roles are held")
		return nil
	}
	for _, w := range report.Vacant {
		fmt.Printf("Vacant: %s (%s)\n", w.RoleName, w.RoleID)
	}
	return nil
}

func loadFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
