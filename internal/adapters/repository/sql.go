package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/okian/crewmatch/internal/domain/model"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const profileColumns = `id, email, full_name, branch, skills, traits, goal, bio,
	location_preference, selected_location, created_at, updated_at`

// SQLStore persists everything through database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	opts    options
	updater *metricsUpdater
}

var _ Store = (*SQLStore)(nil)

// OpenSQL connects to driver (sqlite or postgres) at dsn and migrates the schema.
func OpenSQL(ctx context.Context, driver, dsn string, opts ...Option) (*SQLStore, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.name, err)
	}
	if d.name == sqliteDialect.name {
		// one writer; also keeps in-memory databases on a single connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.name, err)
	}

	s := &SQLStore{db: db, dialect: d, opts: defaultOptions()}
	for _, opt := range opts {
		opt(&s.opts)
	}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.updater = startMetricsUpdater(ctx, s.opts.metricsUpdateInterval, s.CountProfiles)
	return s, nil
}

// Close stops the metrics updater and closes the database.
func (s *SQLStore) Close() error {
	s.updater.close()
	return s.db.Close()
}

func (s *SQLStore) q(query string) string {
	return s.dialect.rebind(query)
}

func (s *SQLStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (model.Profile, error) {
	var (
		p               model.Profile
		skills, traits  string
		created, update int64
	)
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Branch, &skills, &traits, &p.Goal, &p.Bio,
		&p.LocationPreference, &p.SelectedLocation, &created, &update); err != nil {
		return model.Profile{}, err
	}
	if err := json.Unmarshal([]byte(skills), &p.Skills); err != nil {
		return model.Profile{}, fmt.Errorf("decode skills of %s: %w", p.Email, err)
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if err := json.Unmarshal([]byte(traits), &p.Traits); err != nil {
		return model.Profile{}, fmt.Errorf("decode traits of %s: %w", p.Email, err)
	}
	p.CreatedAt = fromMillis(created)
	p.UpdatedAt = fromMillis(update)
	return p, nil
}

// GetProfile implements ProfileStore.
func (s *SQLStore) GetProfile(ctx context.Context, email string) (model.Profile, error) {
	defer track("get_profile", false)()
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+profileColumns+` FROM profiles WHERE email = ?`), strings.ToLower(email))
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, fmt.Errorf("profile %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// UpsertProfile implements ProfileStore.
func (s *SQLStore) UpsertProfile(ctx context.Context, p model.Profile) (int, error) {
	defer track("upsert_profile", true)()
	email := strings.ToLower(p.Email)
	if email == "" {
		return 0, fmt.Errorf("profile without email: %w", ErrInvalidInput)
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return 0, fmt.Errorf("encode skills: %w", err)
	}
	traitsJSON, err := json.Marshal(p.Traits)
	if err != nil {
		return 0, fmt.Errorf("encode traits: %w", err)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := toMillis(s.opts.now())

	affected := 1
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, s.q(`SELECT 1 FROM profiles WHERE email = ?`), email).Scan(&one)
		switch {
		case err == nil:
			affected = 2
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}
		_, err = tx.ExecContext(ctx, s.q(`INSERT INTO profiles (`+profileColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (email) DO UPDATE SET
				full_name = excluded.full_name,
				branch = excluded.branch,
				skills = excluded.skills,
				traits = excluded.traits,
				goal = excluded.goal,
				bio = excluded.bio,
				location_preference = excluded.location_preference,
				selected_location = excluded.selected_location,
				updated_at = excluded.updated_at`),
			p.ID, email, p.FullName, p.Branch, string(skillsJSON), string(traitsJSON), p.Goal, p.Bio,
			p.LocationPreference, p.SelectedLocation, now, now)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("upsert profile: %w", err)
	}
	return affected, nil
}

// OtherProfiles implements ProfileStore.
func (s *SQLStore) OtherProfiles(ctx context.Context, email string, limit int) ([]model.Profile, error) {
	defer track("other_profiles", false)()
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+profileColumns+` FROM profiles
		WHERE email <> ? ORDER BY seq LIMIT ?`), strings.ToLower(email), limit)
	if err != nil {
		return nil, fmt.Errorf("other profiles: %w", err)
	}
	defer rows.Close()

	out := []model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("other profiles: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountProfiles implements ProfileStore.
func (s *SQLStore) CountProfiles(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

// CreateGroup implements GroupStore.
func (s *SQLStore) CreateGroup(ctx context.Context, g model.Group) (model.Group, error) {
	defer track("create_group", true)()
	if g.Name == "" || g.CreatorEmail == "" {
		return model.Group{}, fmt.Errorf("group needs a name and creator: %w", ErrInvalidInput)
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.opts.now()
	}
	g.Members = withCreatorFirst(g.CreatorEmail, g.Members)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, s.q(`SELECT 1 FROM crew_groups WHERE id = ?`), g.ID).Scan(&one)
		if err == nil {
			return fmt.Errorf("group %s: %w", g.ID, ErrConflict)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO crew_groups (id, name, description, creator_email, created_at)
			VALUES (?, ?, ?, ?, ?)`), g.ID, g.Name, g.Description, g.CreatorEmail, toMillis(g.CreatedAt)); err != nil {
			return err
		}
		for _, m := range g.Members {
			if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO group_members (group_id, email) VALUES (?, ?)`), g.ID, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Group{}, fmt.Errorf("create group: %w", err)
	}
	g.CreatedAt = fromMillis(toMillis(g.CreatedAt))
	return g, nil
}

// GetGroup implements GroupStore.
func (s *SQLStore) GetGroup(ctx context.Context, id string) (model.Group, error) {
	defer track("get_group", false)()
	var (
		g       model.Group
		created int64
	)
	err := s.db.QueryRowContext(ctx, s.q(`SELECT id, name, description, creator_email, created_at
		FROM crew_groups WHERE id = ?`), id).Scan(&g.ID, &g.Name, &g.Description, &g.CreatorEmail, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Group{}, fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Group{}, fmt.Errorf("get group: %w", err)
	}
	g.CreatedAt = fromMillis(created)
	if g.Members, err = s.members(ctx, id); err != nil {
		return model.Group{}, err
	}
	return g, nil
}

func (s *SQLStore) members(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT email FROM group_members WHERE group_id = ? ORDER BY seq`), groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("list members: %w", err)
		}
		out = append(out, email)
	}
	return out, rows.Err()
}

// ListGroups implements GroupStore.
func (s *SQLStore) ListGroups(ctx context.Context, email string) ([]model.Group, error) {
	defer track("list_groups", false)()
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT g.id, g.name, g.description, g.creator_email, g.created_at
		FROM crew_groups g JOIN group_members m ON m.group_id = g.id
		WHERE m.email = ? ORDER BY g.seq`), email)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	out := []model.Group{}
	for rows.Next() {
		var (
			g       model.Group
			created int64
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatorEmail, &created); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("list groups: %w", err)
		}
		g.CreatedAt = fromMillis(created)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("list groups: %w", err)
	}
	_ = rows.Close()

	// members are loaded after the cursor is released
	for i := range out {
		if out[i].Members, err = s.members(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLStore) groupExists(ctx context.Context, tx *sql.Tx, id string) error {
	var one int
	err := tx.QueryRowContext(ctx, s.q(`SELECT 1 FROM crew_groups WHERE id = ?`), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	return err
}

// AddMember implements GroupStore.
func (s *SQLStore) AddMember(ctx context.Context, groupID, email string) error {
	defer track("add_member", true)()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.groupExists(ctx, tx, groupID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, s.q(`INSERT INTO group_members (group_id, email) VALUES (?, ?)
			ON CONFLICT (group_id, email) DO NOTHING`), groupID, email)
		return err
	})
}

// RemoveMember implements GroupStore.
func (s *SQLStore) RemoveMember(ctx context.Context, groupID, email string) error {
	defer track("remove_member", true)()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.groupExists(ctx, tx, groupID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM group_members WHERE group_id = ? AND email = ?`), groupID, email)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("member %s of group %s: %w", email, groupID, ErrNotFound)
		}
		return nil
	})
}

// AppendMessage implements GroupStore.
func (s *SQLStore) AppendMessage(ctx context.Context, m model.Message) (model.Message, error) {
	defer track("append_message", true)()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.opts.now()
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.groupExists(ctx, tx, m.GroupID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, s.q(`INSERT INTO group_messages (id, group_id, email, content, client_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`), m.ID, m.GroupID, m.Email, m.Content, m.ClientID, toMillis(m.CreatedAt))
		return err
	})
	if err != nil {
		return model.Message{}, fmt.Errorf("append message: %w", err)
	}
	m.CreatedAt = fromMillis(toMillis(m.CreatedAt))
	return m, nil
}

// ListMessages implements GroupStore.
func (s *SQLStore) ListMessages(ctx context.Context, groupID string, limit int) ([]model.Message, error) {
	defer track("list_messages", false)()
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT id, group_id, email, content, client_id, created_at
		FROM group_messages WHERE group_id = ? ORDER BY seq DESC LIMIT ?`), groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := []model.Message{}
	for rows.Next() {
		var (
			m       model.Message
			created int64
		)
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Email, &m.Content, &m.ClientID, &created); err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}
		m.CreatedAt = fromMillis(created)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

const connectionColumns = `user1_email, user2_email, status, created_at, updated_at`

func scanConnection(row rowScanner) (model.Connection, error) {
	var (
		c                model.Connection
		status           string
		created, updated int64
	)
	if err := row.Scan(&c.User1Email, &c.User2Email, &status, &created, &updated); err != nil {
		return model.Connection{}, err
	}
	c.Status = model.Status(status)
	c.CreatedAt = fromMillis(created)
	c.UpdatedAt = fromMillis(updated)
	return c, nil
}

func (s *SQLStore) findConnection(ctx context.Context, tx *sql.Tx, a, b string) (model.Connection, error) {
	row := tx.QueryRowContext(ctx, s.q(`SELECT `+connectionColumns+` FROM connections
		WHERE (user1_email = ? AND user2_email = ?) OR (user1_email = ? AND user2_email = ?)`), a, b, b, a)
	c, err := scanConnection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Connection{}, fmt.Errorf("connection %s/%s: %w", a, b, ErrNotFound)
	}
	return c, err
}

// UpsertConnection implements ConnectionStore.
func (s *SQLStore) UpsertConnection(ctx context.Context, c model.Connection) (model.Connection, error) {
	defer track("upsert_connection", true)()
	if c.User1Email == "" || c.User2Email == "" || c.User1Email == c.User2Email {
		return model.Connection{}, fmt.Errorf("connection needs two distinct users: %w", ErrInvalidInput)
	}
	var out model.Connection
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.findConnection(ctx, tx, c.User1Email, c.User2Email)
		if err == nil {
			out = existing
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		now := s.opts.now()
		out = model.Connection{
			User1Email: c.User1Email,
			User2Email: c.User2Email,
			Status:     model.StatusPending,
			CreatedAt:  fromMillis(toMillis(now)),
			UpdatedAt:  fromMillis(toMillis(now)),
		}
		_, err = tx.ExecContext(ctx, s.q(`INSERT INTO connections (`+connectionColumns+`) VALUES (?, ?, ?, ?, ?)`),
			out.User1Email, out.User2Email, string(out.Status), toMillis(now), toMillis(now))
		return err
	})
	if err != nil {
		return model.Connection{}, fmt.Errorf("upsert connection: %w", err)
	}
	return out, nil
}

// RespondConnection implements ConnectionStore.
func (s *SQLStore) RespondConnection(ctx context.Context, user1, user2 string, status model.Status) (model.Connection, error) {
	defer track("respond_connection", true)()
	var out model.Connection
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q(`UPDATE connections SET status = ?, updated_at = ?
			WHERE (user1_email = ? AND user2_email = ?) OR (user1_email = ? AND user2_email = ?)`),
			string(status), toMillis(s.opts.now()), user1, user2, user2, user1)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("connection %s/%s: %w", user1, user2, ErrNotFound)
		}
		out, err = s.findConnection(ctx, tx, user1, user2)
		return err
	})
	if err != nil {
		return model.Connection{}, fmt.Errorf("respond connection: %w", err)
	}
	return out, nil
}

// ListConnections implements ConnectionStore.
func (s *SQLStore) ListConnections(ctx context.Context, email string) ([]model.Connection, error) {
	defer track("list_connections", false)()
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+connectionColumns+` FROM connections
		WHERE user1_email = ? OR user2_email = ? ORDER BY seq`), email, email)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()

	out := []model.Connection{}
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("list connections: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const eventColumns = `id, email, title, description, location, start_at, end_at, all_day, link`

func scanEvent(row rowScanner) (model.Event, error) {
	var (
		e          model.Event
		start, end int64
		allDay     int
	)
	if err := row.Scan(&e.ID, &e.Email, &e.Title, &e.Description, &e.Location, &start, &end, &allDay, &e.Link); err != nil {
		return model.Event{}, err
	}
	e.Start = fromMillis(start)
	e.End = fromMillis(end)
	e.AllDay = allDay != 0
	return e, nil
}

// UpsertEvents implements EventStore.
func (s *SQLStore) UpsertEvents(ctx context.Context, email string, events []model.Event) (int, error) {
	defer track("upsert_events", true)()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, e := range events {
			if e.ID == "" {
				return fmt.Errorf("event without id: %w", ErrInvalidInput)
			}
			allDay := 0
			if e.AllDay {
				allDay = 1
			}
			if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO events (`+eventColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (id, email) DO UPDATE SET
					title = excluded.title,
					description = excluded.description,
					location = excluded.location,
					start_at = excluded.start_at,
					end_at = excluded.end_at,
					all_day = excluded.all_day,
					link = excluded.link`),
				e.ID, email, e.Title, e.Description, e.Location, toMillis(e.Start), toMillis(e.End), allDay, e.Link); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("upsert events: %w", err)
	}
	return len(events), nil
}

// ListEvents implements EventStore.
func (s *SQLStore) ListEvents(ctx context.Context, email string) ([]model.Event, error) {
	defer track("list_events", false)()
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+eventColumns+` FROM events
		WHERE email = ? ORDER BY start_at, id`), email)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEvent implements EventStore.
func (s *SQLStore) GetEvent(ctx context.Context, id, email string) (model.Event, error) {
	defer track("get_event", false)()
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+eventColumns+` FROM events WHERE id = ? AND email = ?`), id, email)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

const invitationColumns = `id, event_id, inviter_email, invitee_email, status, created_at, updated_at`

func scanInvitation(row rowScanner) (model.Invitation, error) {
	var (
		inv              model.Invitation
		status           string
		created, updated int64
	)
	if err := row.Scan(&inv.ID, &inv.EventID, &inv.InviterEmail, &inv.InviteeEmail, &status, &created, &updated); err != nil {
		return model.Invitation{}, err
	}
	inv.Status = model.Status(status)
	inv.CreatedAt = fromMillis(created)
	inv.UpdatedAt = fromMillis(updated)
	return inv, nil
}

// CreateInvitation implements EventStore.
func (s *SQLStore) CreateInvitation(ctx context.Context, inv model.Invitation) (model.Invitation, error) {
	defer track("create_invitation", true)()
	if inv.EventID == "" || inv.InviterEmail == "" || inv.InviteeEmail == "" {
		return model.Invitation{}, fmt.Errorf("invitation is incomplete: %w", ErrInvalidInput)
	}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	now := s.opts.now()
	inv.Status = model.StatusPending
	inv.CreatedAt = fromMillis(toMillis(now))
	inv.UpdatedAt = inv.CreatedAt

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, s.q(`SELECT 1 FROM invitations
			WHERE event_id = ? AND invitee_email = ? AND status = ?`),
			inv.EventID, inv.InviteeEmail, string(model.StatusPending)).Scan(&one)
		if err == nil {
			return fmt.Errorf("invitation for %s: %w", inv.InviteeEmail, ErrConflict)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		_, err = tx.ExecContext(ctx, s.q(`INSERT INTO invitations (`+invitationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`),
			inv.ID, inv.EventID, inv.InviterEmail, inv.InviteeEmail, string(inv.Status), toMillis(now), toMillis(now))
		return err
	})
	if err != nil {
		return model.Invitation{}, fmt.Errorf("create invitation: %w", err)
	}
	return inv, nil
}

// ListInvitations implements EventStore.
func (s *SQLStore) ListInvitations(ctx context.Context, email string) ([]model.Invitation, error) {
	defer track("list_invitations", false)()
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+invitationColumns+` FROM invitations
		WHERE invitee_email = ? ORDER BY seq DESC`), email)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	out := []model.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("list invitations: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// RespondInvitation implements EventStore.
func (s *SQLStore) RespondInvitation(ctx context.Context, id string, status model.Status) (model.Invitation, error) {
	defer track("respond_invitation", true)()
	var out model.Invitation
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q(`UPDATE invitations SET status = ?, updated_at = ? WHERE id = ?`),
			string(status), toMillis(s.opts.now()), id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("invitation %s: %w", id, ErrNotFound)
		}
		out, err = scanInvitation(tx.QueryRowContext(ctx, s.q(`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`), id))
		return err
	})
	if err != nil {
		return model.Invitation{}, fmt.Errorf("respond invitation: %w", err)
	}
	return out, nil
}
