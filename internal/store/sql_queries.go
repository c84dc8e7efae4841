// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

// profile store (PostgreSQL)
const (
	profileColumns = `username, display_name, email, birth_date, gender, preferred_language, role, password_hash, created_at, updated_at`

	existsProfile = `SELECT EXISTS (SELECT 1 FROM profiles WHERE username = $1);`

	createProfile = `INSERT INTO profiles (
			username,
			display_name,
			email,
			birth_date,
			gender,
			preferred_language,
			role,
			password_hash,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9::timestamptz, NOW()))
		RETURNING created_at, updated_at;`

	deleteProfile = `DELETE FROM profiles
		WHERE username = $1
		RETURNING ` + profileColumns + `;`

	renameProfile = `UPDATE profiles
		SET username = $2, updated_at = NOW()
		WHERE username = $1;`

	fetchProfile = `SELECT ` + profileColumns + `
		FROM profiles
		WHERE username = $1;`

	updateProfilePasswordHash = `UPDATE profiles
		SET password_hash = $2, updated_at = NOW()
		WHERE username = $1 AND password_hash = $3;`

	listProfileUsernames = `SELECT username FROM profiles ORDER BY username;`
)

// identity account registry (SQLite)
const (
	accountColumns = `username, password_hash, home_directory, authorities, created_at`

	existsAccount = `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = ?);`

	createAccount = `INSERT INTO accounts (` + accountColumns + `) VALUES (?, ?, ?, ?, ?);`

	upsertAccount = `INSERT INTO accounts (` + accountColumns + `) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = excluded.password_hash,
			home_directory = excluded.home_directory,
			authorities = excluded.authorities;`

	getAccount = `SELECT ` + accountColumns + ` FROM accounts WHERE username = ?;`

	copyAccountAs = `INSERT INTO accounts (` + accountColumns + `)
		SELECT ?, password_hash, ?, authorities, created_at
		FROM accounts
		WHERE username = ?;`

	deleteAccount = `DELETE FROM accounts WHERE username = ?;`

	listAccountUsernames = `SELECT username FROM accounts ORDER BY username;`
)
