package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clubci-checkin/models"
	"clubci-checkin/qr"
)

type EventHandler struct {
	db *pgxpool.Pool
}

func NewEventHandler(db *pgxpool.Pool) *EventHandler {
	return &EventHandler{db: db}
}

const eventColumns = `
	event_id, name, description, type, date_time, venue,
	registration_deadline, max_participants, current_participants,
	fee, attended_count, status
`

func scanEvent(row pgx.Row, ev *models.Event) error {
	return row.Scan(
		&ev.EventID,
		&ev.Name,
		&ev.Description,
		&ev.Type,
		&ev.DateTime,
		&ev.Venue,
		&ev.RegistrationDeadline,
		&ev.MaxParticipants,
		&ev.CurrentParticipants,
		&ev.Fee,
		&ev.AttendedCount,
		&ev.Status,
	)
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev := models.Event{
		EventID:              uuid.New().String(),
		Name:                 req.Name,
		Description:          req.Description,
		Type:                 req.Type,
		DateTime:             req.DateTime,
		Venue:                req.Venue,
		RegistrationDeadline: req.RegistrationDeadline,
		MaxParticipants:      req.MaxParticipants,
		Fee:                  req.Fee,
		Status:               models.StatusUpcoming,
	}

	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, 0, $10)
	`
	_, err := h.db.Exec(c, query,
		ev.EventID, ev.Name, ev.Description, ev.Type, ev.DateTime, ev.Venue,
		ev.RegistrationDeadline, ev.MaxParticipants, ev.Fee, ev.Status,
	)
	if err != nil {
		log.Printf("Error creating event %s: %v", ev.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	log.Printf("Created event: %s (%s)", ev.Name, ev.EventID)
	c.JSON(http.StatusCreated, ev)
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	rows, err := h.db.Query(c, "SELECT "+eventColumns+" FROM events ORDER BY date_time")
	if err != nil {
		log.Printf("Error listing events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var ev models.Event
		if err := scanEvent(rows, &ev); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan event"})
			return
		}
		events = append(events, ev)
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	var ev models.Event
	err := scanEvent(h.db.QueryRow(c, "SELECT "+eventColumns+" FROM events WHERE event_id = $1", eventID), &ev)
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching event %s: %v", eventID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, ev)
}

// RegisterUser registers a participant for an event. Capacity and the
// registration deadline are re-checked here; attendance marking is
// deliberately not gated by either.
func (h *EventHandler) RegisterUser(c *gin.Context) {
	eventID := c.Param("id")

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		log.Printf("Error starting transaction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback(c)

	var ev models.Event
	err = scanEvent(tx.QueryRow(c, "SELECT "+eventColumns+" FROM events WHERE event_id = $1", eventID), &ev)
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching event %s: %v", eventID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if ev.IsFull() {
		c.JSON(http.StatusConflict, gin.H{"error": "Event is full"})
		return
	}
	if !ev.IsRegistrationOpen(time.Now()) {
		c.JSON(http.StatusConflict, gin.H{"error": "Registration is closed for this event"})
		return
	}

	var exists bool
	err = tx.QueryRow(c, "SELECT EXISTS(SELECT 1 FROM registrations WHERE event_id = $1 AND LOWER(username) = LOWER($2))", eventID, req.Username).Scan(&exists)
	if err != nil {
		log.Printf("Error checking registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Already registered for this event"})
		return
	}

	reg := models.Registration{
		ID:               uuid.New(),
		EventID:          eventID,
		Username:         req.Username,
		PaymentStatus:    "pending",
		RegistrationDate: time.Now(),
	}
	_, err = tx.Exec(c, `
		INSERT INTO registrations (id, event_id, username, attended, payment_status, registration_date)
		VALUES ($1, $2, $3, false, $4, $5)
	`, reg.ID, reg.EventID, reg.Username, reg.PaymentStatus, reg.RegistrationDate)
	if err != nil {
		log.Printf("Error inserting registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	_, err = tx.Exec(c, "UPDATE events SET current_participants = current_participants + 1 WHERE event_id = $1", eventID)
	if err != nil {
		log.Printf("Error updating participant count: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	if err := tx.Commit(c); err != nil {
		log.Printf("Error committing registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	log.Printf("Registered %s for event %s", req.Username, eventID)
	c.JSON(http.StatusCreated, reg)
}

// GetRegistrations returns the event's registration list as a bare JSON
// array; the station's validation step consumes it as-is.
func (h *EventHandler) GetRegistrations(c *gin.Context) {
	eventID := c.Param("id")

	var exists bool
	err := h.db.QueryRow(c, "SELECT EXISTS(SELECT 1 FROM events WHERE event_id = $1)", eventID).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	rows, err := h.db.Query(c, `
		SELECT id, event_id, username, attended, payment_status, registration_date, attended_at
		FROM registrations
		WHERE event_id = $1
		ORDER BY registration_date DESC
	`, eventID)
	if err != nil {
		log.Printf("Error listing registrations for %s: %v", eventID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	regs := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		err := rows.Scan(
			&reg.ID,
			&reg.EventID,
			&reg.Username,
			&reg.Attended,
			&reg.PaymentStatus,
			&reg.RegistrationDate,
			&reg.AttendedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan registration"})
			return
		}
		regs = append(regs, reg)
	}

	c.JSON(http.StatusOK, regs)
}

// EventQR renders a participant's check-in QR code as PNG.
func (h *EventHandler) EventQR(c *gin.Context) {
	eventID := c.Param("id")
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username query parameter is required"})
		return
	}

	var name string
	err := h.db.QueryRow(c, "SELECT name FROM events WHERE event_id = $1", eventID).Scan(&name)
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching event %s: %v", eventID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	png, err := qr.Image(qr.Encode(username, name, eventID), 512)
	if err != nil {
		log.Printf("Error rendering QR for %s/%s: %v", eventID, username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
