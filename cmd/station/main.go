// The station binary runs an admin check-in point: capture devices push
// luminance frames over HTTP, the scan pipeline decodes them on its own
// goroutine, and the coordinator walks each claim through confirmation,
// validation and commit with the operator answering on the terminal.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"clubci-checkin/checkin"
	"clubci-checkin/config"
	"clubci-checkin/gateway"
	"clubci-checkin/scanner"
)

// maxFrameBytes caps one luminance plane upload (covers 4K frames).
const maxFrameBytes = 16 << 20

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using default environment variables")
	}

	cfg, err := config.LoadStation()
	if err != nil {
		log.Fatalf("Unable to load configuration: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := gateway.NewClient(cfg.APIBaseURL, cfg.APIToken)
	pipeline := scanner.NewPipeline(scanner.NewQRDecoder())
	prompter := newTerminalPrompter(os.Stdin, os.Stdout)
	coordinator := checkin.New(gw, pipeline, prompter)

	frames := make(chan scanner.Frame, 1)
	go pipeline.Run(ctx, frames)

	router := gin.Default()
	router.POST("/frames", frameIntake(frames))
	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"state":      coordinator.State().String(),
			"processing": pipeline.Busy(),
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: router}
	go func() {
		log.Printf("Station frame intake listening on %s\n", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Frame intake failed: %v\n", err)
		}
	}()

	err = coordinator.Run(ctx)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Printf("Frame intake shutdown: %v", serr)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Check-in session ended with error: %v\n", err)
	}
	log.Println("Check-in session closed")
}

// frameIntake accepts one raw luminance plane per request. When the
// pipeline is busy with a claim the frame is dropped, mirroring the
// keep-only-latest backpressure of the capture side.
func frameIntake(frames chan<- scanner.Frame) gin.HandlerFunc {
	return func(c *gin.Context) {
		width, werr := strconv.Atoi(c.Query("width"))
		height, herr := strconv.Atoi(c.Query("height"))
		if werr != nil || herr != nil || width <= 0 || height <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width and height query parameters are required"})
			return
		}

		data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxFrameBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read frame body"})
			return
		}
		if len(data) < width*height {
			c.JSON(http.StatusBadRequest, gin.H{"error": "luminance plane shorter than width*height"})
			return
		}

		select {
		case frames <- scanner.Frame{Y: data, Width: width, Height: height}:
			c.JSON(http.StatusAccepted, gin.H{"accepted": true})
		default:
			c.JSON(http.StatusAccepted, gin.H{"accepted": false})
		}
	}
}
