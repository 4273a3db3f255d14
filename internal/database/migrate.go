package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates all tables if they do not exist yet. Statements are
// idempotent so the server can run them unconditionally at startup.
//
// Two constraints matter for correctness and are relied on elsewhere:
//   - artwork_types.name is UNIQUE, which makes get-or-create race-free via
//     INSERT ... ON DUPLICATE KEY UPDATE.
//   - favorites has a composite UNIQUE(user_id, artwork_id), so a concurrent
//     double-submit of the toggle endpoint cannot produce duplicate rows.
//
// Artwork IDs are the upstream catalog identifiers, not AUTO_INCREMENT:
// re-fetching an artwork must land on the same row.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			username      VARCHAR(50)  NOT NULL,
			email         VARCHAR(75)  NOT NULL,
			password_hash VARCHAR(130) NOT NULL,
			first_name    VARCHAR(100) NULL,
			image_url     TEXT         NULL,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_users_username (username),
			UNIQUE KEY uq_users_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS artwork_types (
			id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			name VARCHAR(255) NOT NULL,
			PRIMARY KEY (id),
			UNIQUE KEY uq_artwork_types_name (name)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS artworks (
			id                    BIGINT UNSIGNED NOT NULL,
			title                 TEXT NULL,
			alt_titles            TEXT NULL,
			artist_display        TEXT NULL,
			date_start            INT  NULL,
			date_end              INT  NULL,
			date_display          TEXT NULL,
			place_of_origin       VARCHAR(255) NULL,
			classification_titles TEXT NULL,
			edition               TEXT NULL,
			color                 TEXT NULL,
			color_h               INT  NULL,
			color_s               INT  NULL,
			color_l               INT  NULL,
			dimensions            TEXT NULL,
			description           MEDIUMTEXT NULL,
			image_id              VARCHAR(64) NULL,
			artwork_type_title    VARCHAR(255) NULL,
			api_link              TEXT NULL,
			medium_display        TEXT NULL,
			type_id               BIGINT UNSIGNED NULL,
			fetched_at            TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			KEY idx_artworks_type (type_id),
			KEY idx_artworks_color (color_h, color_s, color_l),
			CONSTRAINT fk_artworks_type FOREIGN KEY (type_id)
				REFERENCES artwork_types (id) ON DELETE SET NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS favorites (
			id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			user_id    BIGINT UNSIGNED NOT NULL,
			artwork_id BIGINT UNSIGNED NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_favorites_user_artwork (user_id, artwork_id),
			CONSTRAINT fk_favorites_user FOREIGN KEY (user_id)
				REFERENCES users (id) ON DELETE CASCADE,
			CONSTRAINT fk_favorites_artwork FOREIGN KEY (artwork_id)
				REFERENCES artworks (id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS search_history (
			id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			user_id     BIGINT UNSIGNED NOT NULL,
			search_term VARCHAR(500) NOT NULL,
			results     MEDIUMTEXT NULL,
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			KEY idx_search_history_user (user_id),
			CONSTRAINT fk_search_history_user FOREIGN KEY (user_id)
				REFERENCES users (id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			user_id    BIGINT UNSIGNED NOT NULL,
			token_hash CHAR(64) NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			KEY idx_refresh_tokens_hash (token_hash),
			CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id)
				REFERENCES users (id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}

	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
