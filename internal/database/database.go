package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "americano_user")
	password := getEnv("DB_PASSWORD", "americano_password")
	dbname := getEnv("DB_NAME", "americano")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS items (
		id                 BIGSERIAL PRIMARY KEY,
		topic              VARCHAR(100) NOT NULL,
		stem               TEXT NOT NULL,
		options            JSONB NOT NULL,
		correct_option     INT NOT NULL,
		difficulty_score   REAL NOT NULL DEFAULT 50 CHECK (difficulty_score >= 0 AND difficulty_score <= 100),
		active             BOOLEAN NOT NULL DEFAULT TRUE,
		flagged_for_review BOOLEAN NOT NULL DEFAULT FALSE,
		times_served       INT NOT NULL DEFAULT 0,
		times_correct      INT NOT NULL DEFAULT 0,
		created_at         TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_items_topic ON items(topic, active, difficulty_score);

	CREATE TABLE IF NOT EXISTS assessment_sessions (
		id           BIGSERIAL PRIMARY KEY,
		token        UUID UNIQUE NOT NULL,
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		topic        VARCHAR(100) NOT NULL,
		status       VARCHAR(20) NOT NULL DEFAULT 'active',
		started_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		completed_at TIMESTAMP WITH TIME ZONE
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user ON assessment_sessions(user_id, status);
	CREATE INDEX IF NOT EXISTS idx_sessions_token ON assessment_sessions(token);

	CREATE TABLE IF NOT EXISTS assessment_responses (
		id                 BIGSERIAL PRIMARY KEY,
		session_id         BIGINT NOT NULL REFERENCES assessment_sessions(id) ON DELETE CASCADE,
		item_id            BIGINT NOT NULL REFERENCES items(id),
		selected_option    INT NOT NULL,
		correct            BOOLEAN NOT NULL,
		difficulty_score   REAL NOT NULL,
		confidence         REAL,
		time_spent_seconds REAL,
		answered_at        TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(session_id, item_id)
	);

	CREATE INDEX IF NOT EXISTS idx_responses_session ON assessment_responses(session_id, answered_at);
	CREATE INDEX IF NOT EXISTS idx_responses_item ON assessment_responses(item_id);

	CREATE TABLE IF NOT EXISTS ability_snapshots (
		id                  BIGSERIAL PRIMARY KEY,
		session_id          BIGINT NOT NULL REFERENCES assessment_sessions(id) ON DELETE CASCADE,
		theta               DOUBLE PRECISION NOT NULL,
		standard_error      DOUBLE PRECISION NOT NULL,
		confidence_interval DOUBLE PRECISION NOT NULL,
		iterations          INT NOT NULL,
		converged           BOOLEAN NOT NULL,
		responses_seen      INT NOT NULL,
		created_at          TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_session ON ability_snapshots(session_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS calibration_records (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		session_id BIGINT NOT NULL REFERENCES assessment_sessions(id) ON DELETE CASCADE,
		confidence REAL NOT NULL,
		score      REAL NOT NULL,
		delta      REAL NOT NULL,
		category   VARCHAR(20) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_calibration_user ON calibration_records(user_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS user_progress (
		user_id             BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		momentum            BIGINT NOT NULL DEFAULT 0,
		current_streak      INT NOT NULL DEFAULT 0,
		longest_streak      INT NOT NULL DEFAULT 0,
		last_active_date    DATE,
		daily_goal_target   INT NOT NULL DEFAULT 6,
		daily_goal_progress INT NOT NULL DEFAULT 0,
		daily_goal_date     DATE DEFAULT CURRENT_DATE,
		responses_total     INT NOT NULL DEFAULT 0,
		correct_total       INT NOT NULL DEFAULT 0,
		updated_at          TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Idempotent column additions for databases created before these fields
	alterStatements := []string{
		`ALTER TABLE assessment_responses ADD COLUMN IF NOT EXISTS time_spent_seconds REAL`,
		`ALTER TABLE items ADD COLUMN IF NOT EXISTS flagged_for_review BOOLEAN NOT NULL DEFAULT FALSE`,
	}

	for _, stmt := range alterStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("alter table failed: %w", err)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
