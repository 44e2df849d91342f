package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the tuition snapshot store.
var Migrations = migrate.NewGroup("tuition")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_tuition_students",
			Version: "20260101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tuition_students (
    wallet        TEXT PRIMARY KEY,
    student_id    TEXT NOT NULL DEFAULT '',
    registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tuition_students_student_id ON tuition_students (student_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tuition_students`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_tuition_fee_schedules",
			Version: "20260101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tuition_fee_schedules (
    semester TEXT PRIMARY KEY,
    base     TEXT NOT NULL DEFAULT '0',
    currency TEXT NOT NULL DEFAULT '',
    deadline TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    active   BOOLEAN NOT NULL DEFAULT TRUE
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tuition_fee_schedules`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_tuition_scholarships",
			Version: "20260101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tuition_scholarships (
    wallet  TEXT PRIMARY KEY,
    percent INT NOT NULL DEFAULT 0
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tuition_scholarships`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_tuition_payments",
			Version: "20260101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tuition_payments (
    id        BIGINT PRIMARY KEY,
    wallet    TEXT NOT NULL DEFAULT '',
    semester  TEXT NOT NULL DEFAULT '',
    gross     TEXT NOT NULL DEFAULT '0',
    remaining TEXT NOT NULL DEFAULT '0',
    currency  TEXT NOT NULL DEFAULT '',
    paid      BOOLEAN NOT NULL DEFAULT FALSE,
    refunded  BOOLEAN NOT NULL DEFAULT FALSE,
    timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tuition_payments_wallet_semester ON tuition_payments (wallet, semester);
CREATE INDEX IF NOT EXISTS idx_tuition_payments_wallet ON tuition_payments (wallet);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tuition_payments`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_tuition_requests",
			Version: "20260101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tuition_requests (
    id           TEXT PRIMARY KEY,
    wallet       TEXT NOT NULL DEFAULT '',
    student_id   TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL DEFAULT 'pending',
    submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    decided_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_tuition_requests_wallet ON tuition_requests (wallet);
CREATE INDEX IF NOT EXISTS idx_tuition_requests_status ON tuition_requests (status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tuition_requests`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_tuition_snapshot_meta",
			Version: "20260101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tuition_snapshot_meta (
    id           INT PRIMARY KEY,
    version      INT NOT NULL DEFAULT 1,
    currency     TEXT NOT NULL DEFAULT '',
    last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tuition_snapshot_meta`)
				return err
			},
		},
	)
}
