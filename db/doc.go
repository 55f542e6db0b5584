// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation and voter seeding
for the development server.

# Connections

	conn, err := db.Open(db.TypeSQLite, "file:voterauth.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite uses modernc.org/sqlite (pure Go); PostgreSQL uses lib/pq.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voter: registry of voters, phone number unique, has_voted flag
  - otp_challenge: one live OTP challenge per phone number (used when Redis
    is not configured)

# Seeding

	voters, err := db.LoadSeedFile("voters.json")
	added, err := db.SeedVoters(ctx, conn, voters)

Government IDs in the seed file are bcrypt-hashed before insertion. Voters
without an ID get a random UUID. Re-seeding is idempotent.
*/
package db
