package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MikeMC777/tienda-api/internal/audit"
	"github.com/MikeMC777/tienda-api/internal/config"
	"github.com/MikeMC777/tienda-api/internal/events"
)

// handleEvent persists one consumed event as an audit_log row.
func handleEvent(ctx context.Context, repo audit.Repository, body []byte) error {
	var m events.Message
	if err := json.Unmarshal(body, &m); err != nil {
		return err
	}
	return repo.Create(ctx, &audit.Entry{
		ID:        uuid.NewString(),
		EventType: m.Type,
		EntityID:  m.EntityID,
		ActorID:   m.ActorID,
		Payload:   body,
	})
}

func worker(conn *amqp.Connection, queue string, repo audit.Repository, id int, wg *sync.WaitGroup) {
	defer wg.Done()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("[worker %d] channel error: %v", id, err)
		return
	}
	defer ch.Close()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Printf("[worker %d] qos error: %v", id, err)
		return
	}

	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		log.Printf("[worker %d] consume error: %v", id, err)
		return
	}

	log.Printf("[worker %d] start consuming", id)

	ctx := context.Background()
	for d := range msgs {
		if err := handleEvent(ctx, repo, d.Body); err != nil {
			// malformed or unpersistable message; drop it and move on
			log.Printf("[worker %d] event dropped: %v", id, err)
		}
		d.Ack(false)
	}
}

func main() {
	cfg := config.Load()
	if cfg.AMQPURI == "" {
		log.Fatal("[audit] AMQP_URI is required")
	}

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[audit] pgx pool: %v", err)
	}
	defer pool.Close()
	repo := audit.NewPGRepo(pool)

	conn, err := amqp.Dial(cfg.AMQPURI)
	if err != nil {
		log.Fatalf("[audit] rabbitmq: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("[audit] channel: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.AuditQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("[audit] declare queue: %v", err)
	}
	ch.Close()

	var wg sync.WaitGroup
	wg.Add(cfg.AuditWorkers)
	for i := 0; i < cfg.AuditWorkers; i++ {
		go worker(conn, cfg.AuditQueue, repo, i, &wg)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[audit] shutting down...")
	conn.Close()
	wg.Wait()
}
