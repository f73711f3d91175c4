package database

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS rating_snapshots (
		id UUID PRIMARY KEY,
		base_rating DOUBLE PRECISION NOT NULL,
		k_factor DOUBLE PRECISION NOT NULL,
		matches_processed INTEGER NOT NULL,
		team_count INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS team_ratings (
		snapshot_id UUID NOT NULL REFERENCES rating_snapshots(id) ON DELETE CASCADE,
		team TEXT NOT NULL,
		rating DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (snapshot_id, team)
	)`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		id UUID PRIMARY KEY,
		cycle_id UUID NOT NULL,
		event_id TEXT NOT NULL,
		matchup TEXT NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		commence_time TIMESTAMPTZ NOT NULL,
		bet_type TEXT NOT NULL,
		candidate TEXT NOT NULL,
		selection TEXT NOT NULL,
		opponent TEXT NOT NULL,
		american_odds INTEGER,
		edge DOUBLE PRECISION NOT NULL,
		edge_pct DOUBLE PRECISION NOT NULL,
		model_probability DOUBLE PRECISION NOT NULL,
		kelly_fraction DOUBLE PRECISION NOT NULL,
		stake NUMERIC(12, 2) NOT NULL,
		predicted_margin DOUBLE PRECISION NOT NULL,
		implied_probability DOUBLE PRECISION,
		market_total DOUBLE PRECISION,
		model_total DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_cycle ON recommendations(cycle_id)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_created ON recommendations(created_at DESC)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS rating_snapshots (
		id TEXT PRIMARY KEY,
		base_rating REAL NOT NULL,
		k_factor REAL NOT NULL,
		matches_processed INTEGER NOT NULL,
		team_count INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS team_ratings (
		snapshot_id TEXT NOT NULL REFERENCES rating_snapshots(id) ON DELETE CASCADE,
		team TEXT NOT NULL,
		rating REAL NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (snapshot_id, team)
	)`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		id TEXT PRIMARY KEY,
		cycle_id TEXT NOT NULL,
		event_id TEXT NOT NULL,
		matchup TEXT NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		commence_time TIMESTAMP NOT NULL,
		bet_type TEXT NOT NULL,
		candidate TEXT NOT NULL,
		selection TEXT NOT NULL,
		opponent TEXT NOT NULL,
		american_odds INTEGER,
		edge REAL NOT NULL,
		edge_pct REAL NOT NULL,
		model_probability REAL NOT NULL,
		kelly_fraction REAL NOT NULL,
		stake REAL NOT NULL,
		predicted_margin REAL NOT NULL,
		implied_probability REAL,
		market_total REAL,
		model_total REAL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_cycle ON recommendations(cycle_id)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_created ON recommendations(created_at)`,
}
