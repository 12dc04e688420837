// Package migrate provisions the Spanner instance and database and applies the DDL files
// in a migrations directory.
package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Target names the database to migrate.
type Target struct {
	Project  string
	Instance string
	Database string
}

// Path returns the fully qualified database name.
func (t Target) Path() string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s", t.Project, t.Instance, t.Database)
}

// Runner applies migrations.
type Runner struct {
	target   Target
	emulator bool
	logger   *zap.Logger
}

// NewRunner creates a Runner. emulator relaxes existence checks the emulator answers loosely.
func NewRunner(target Target, emulator bool, logger *zap.Logger) *Runner {
	return &Runner{target: target, emulator: emulator, logger: logger}
}

// Run ensures the instance and database exist, then applies every *.sql file in dir
// in lexical order.
func (r *Runner) Run(ctx context.Context, dir string) error {
	if err := r.ensureInstance(ctx); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}
	if err := r.ensureDatabase(ctx); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	if err := r.applyDir(ctx, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (r *Runner) ensureInstance(ctx context.Context) error {
	admin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer admin.Close()

	name := fmt.Sprintf("projects/%s/instances/%s", r.target.Project, r.target.Instance)
	_, err = admin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: name})
	if err == nil {
		r.logger.Info("instance exists", zap.String("instance", name))
		return nil
	}
	if status.Code(err) != codes.NotFound {
		r.logger.Warn("unexpected error checking instance", zap.Error(err))
		return nil
	}

	op, err := admin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + r.target.Project,
		InstanceId: r.target.Instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", r.target.Project),
			DisplayName: "Pricing Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create instance: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		r.logger.Warn("instance creation did not finish cleanly", zap.Error(err))
	}

	r.logger.Info("instance created", zap.String("instance", name))
	return nil
}

func (r *Runner) ensureDatabase(ctx context.Context) error {
	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	_, err = admin.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: r.target.Path()})
	if err == nil {
		r.logger.Info("database exists", zap.String("database", r.target.Path()))
		return nil
	}
	if status.Code(err) != codes.NotFound {
		if r.emulator {
			r.logger.Warn("proceeding with database in emulator mode", zap.Error(err))
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	op, err := admin.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          fmt.Sprintf("projects/%s/instances/%s", r.target.Project, r.target.Instance),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", r.target.Database),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}

	r.logger.Info("database created", zap.String("database", r.target.Path()))
	return nil
}

func (r *Runner) applyDir(ctx context.Context, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		r.logger.Info("no migration files found", zap.String("dir", dir))
		return nil
	}
	sort.Strings(files)

	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		op, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   r.target.Path(),
			Statements: SplitDDL(string(content)),
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", filepath.Base(file), err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", filepath.Base(file), err)
		}

		r.logger.Info("migration applied", zap.String("file", filepath.Base(file)))
	}
	return nil
}

// SplitDDL drops comment lines and splits a file into individual statements.
func SplitDDL(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var statements []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
