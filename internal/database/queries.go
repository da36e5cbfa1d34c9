package database

const (
	// User queries
	queryInsertUser = `
		INSERT INTO users (id, name, username, password_hash, role, balance, pix_key, parent_id, total_deposits_by_bookie)
		VALUES (?, ?, ?, ?, ?, '0', ?, ?, '0')`

	queryGetUserById = `
		SELECT id, name, username, password_hash, role, balance, pix_key, parent_id, total_deposits_by_bookie, created_at
		FROM users
		WHERE id = ?`

	queryGetUserByUsername = `
		SELECT id, name, username, password_hash, role, balance, pix_key, parent_id, total_deposits_by_bookie, created_at
		FROM users
		WHERE username = ? COLLATE NOCASE`

	queryGetUsers = `
		SELECT id, name, username, password_hash, role, balance, pix_key, parent_id, total_deposits_by_bookie, created_at
		FROM users
		ORDER BY created_at`

	queryGetUsersByParent = `
		SELECT id, name, username, password_hash, role, balance, pix_key, parent_id, total_deposits_by_bookie, created_at
		FROM users
		WHERE parent_id = ?
		ORDER BY created_at`

	queryGetUserBalanceForUpdate = `
		SELECT balance, total_deposits_by_bookie, version
		FROM users
		WHERE id = ?`

	queryUpdateUserBalanceAndDeposits = `
		UPDATE users
		SET balance = ?, total_deposits_by_bookie = ?, version = version + 1
		WHERE id = ? AND version = ?`

	queryUpdateUserPixKey = `
		UPDATE users SET pix_key = ? WHERE id = ?`

	queryUpdateUserPassword = `
		UPDATE users SET password_hash = ? WHERE id = ?`

	queryDeleteUser = `
		DELETE FROM users WHERE id = ?`

	// Match queries
	queryGetMatches = `
		SELECT id, league, home_team, away_team, date, result, position
		FROM matches
		ORDER BY position`

	queryUpdateMatch = `
		UPDATE matches
		SET league = ?, home_team = ?, away_team = ?, date = ?, result = ?
		WHERE id = ?`

	queryDeleteMatches = `
		DELETE FROM matches`

	queryInsertMatch = `
		INSERT INTO matches (id, league, home_team, away_team, date, result, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	// Settings queries (singleton row, id = 1)
	queryGetSettings = `
		SELECT pix_key, betting_blocked, ticket_price, jackpot_prize
		FROM settings
		WHERE id = 1`

	queryUpsertSettings = `
		INSERT INTO settings (id, pix_key, betting_blocked, ticket_price, jackpot_prize)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			pix_key = excluded.pix_key,
			betting_blocked = excluded.betting_blocked,
			ticket_price = excluded.ticket_price,
			jackpot_prize = excluded.jackpot_prize`

	// Ticket queries
	queryInsertTicket = `
		INSERT INTO tickets (id, user_id, user_name, picks, match_info, cost, potential_prize, status, parent_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetTicketById = `
		SELECT id, user_id, user_name, picks, match_info, cost, potential_prize, status, parent_id, created_at
		FROM tickets
		WHERE id = ?`

	queryGetTickets = `
		SELECT id, user_id, user_name, picks, match_info, cost, potential_prize, status, parent_id, created_at
		FROM tickets
		ORDER BY created_at DESC`

	queryGetTicketsByUser = `
		SELECT id, user_id, user_name, picks, match_info, cost, potential_prize, status, parent_id, created_at
		FROM tickets
		WHERE user_id = ?
		ORDER BY created_at DESC`

	queryGetTicketsByParent = `
		SELECT id, user_id, user_name, picks, match_info, cost, potential_prize, status, parent_id, created_at
		FROM tickets
		WHERE parent_id = ?
		ORDER BY created_at DESC`

	queryGetTicketStatus = `
		SELECT status FROM tickets WHERE id = ?`

	queryUpdateTicketStatus = `
		UPDATE tickets SET status = ? WHERE id = ? AND status = ?`

	queryDeleteTicket = `
		DELETE FROM tickets WHERE id = ?`

	// Balance request queries
	queryInsertBalanceRequest = `
		INSERT INTO balance_requests (id, user_id, user_name, amount, status, parent_id)
		VALUES (?, ?, ?, ?, 'PENDING', ?)`

	queryGetBalanceRequestById = `
		SELECT id, user_id, user_name, amount, status, parent_id, created_at
		FROM balance_requests
		WHERE id = ?`

	queryGetBalanceRequests = `
		SELECT id, user_id, user_name, amount, status, parent_id, created_at
		FROM balance_requests
		ORDER BY created_at DESC`

	queryGetBalanceRequestsByParent = `
		SELECT id, user_id, user_name, amount, status, parent_id, created_at
		FROM balance_requests
		WHERE parent_id = ?
		ORDER BY created_at DESC`

	queryGetBalanceRequestsByUser = `
		SELECT id, user_id, user_name, amount, status, parent_id, created_at
		FROM balance_requests
		WHERE user_id = ?
		ORDER BY created_at DESC`

	queryGetBalanceRequestForResolve = `
		SELECT user_id, amount, status, parent_id FROM balance_requests WHERE id = ?`

	queryResolveBalanceRequest = `
		UPDATE balance_requests SET status = ? WHERE id = ? AND status = 'PENDING'`
)
