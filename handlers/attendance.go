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
)

type AttendanceHandler struct {
	db *pgxpool.Pool
}

func NewAttendanceHandler(db *pgxpool.Pool) *AttendanceHandler {
	return &AttendanceHandler{db: db}
}

// MarkAttendance is the v1 route: the username travels in the path.
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	h.mark(c, c.Param("id"), c.Param("username"))
}

// MarkAttendanceLegacy is the older route shape: the username travels in
// the body. Same semantics as MarkAttendance.
func (h *AttendanceHandler) MarkAttendanceLegacy(c *gin.Context) {
	var req models.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	h.mark(c, c.Param("id"), req.Username)
}

func (h *AttendanceHandler) mark(c *gin.Context, eventID, username string) {
	log.Printf("Marking attendance: event=%s, user=%s", eventID, username)

	var exists bool
	err := h.db.QueryRow(c, "SELECT EXISTS(SELECT 1 FROM events WHERE event_id = $1)", eventID).Scan(&exists)
	if err != nil {
		log.Printf("Error checking event existence: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Event not found"})
		return
	}

	now := time.Now()
	var regID uuid.UUID
	var attended bool
	err = h.db.QueryRow(c, "SELECT id, attended FROM registrations WHERE event_id = $1 AND LOWER(username) = LOWER($2)", eventID, username).Scan(&regID, &attended)

	switch {
	case err == pgx.ErrNoRows:
		// Admin override: the station may commit attendance for users
		// who never registered. Record them on the spot.
		_, err = h.db.Exec(c, `
			INSERT INTO registrations (id, event_id, username, attended, payment_status, registration_date, attended_at)
			VALUES ($1, $2, $3, true, 'pending', $4, $4)
		`, uuid.New(), eventID, username, now)
		if err != nil {
			log.Printf("Error inserting override registration: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark attendance"})
			return
		}
		log.Printf("Recorded unregistered attendee %s for event %s", username, eventID)

	case err != nil:
		log.Printf("Error checking attendance status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return

	case attended:
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Participant has already checked in to this event"})
		return

	default:
		_, err = h.db.Exec(c, "UPDATE registrations SET attended = true, attended_at = $1 WHERE id = $2", now, regID)
		if err != nil {
			log.Printf("Error updating attendance: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark attendance"})
			return
		}
	}

	_, err = h.db.Exec(c, "UPDATE events SET attended_count = attended_count + 1 WHERE event_id = $1", eventID)
	if err != nil {
		// The attendance record is already in place; only the counter
		// is stale. Log and report success.
		log.Printf("Warning: failed to bump attended_count for %s: %v", eventID, err)
	}

	log.Printf("Successfully marked attendance: event=%s, user=%s", eventID, username)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Attendance marked for " + username})
}
