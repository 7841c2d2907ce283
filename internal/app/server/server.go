package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/codeclash-vn/codeclash/internal/app/ranking"
	"github.com/codeclash-vn/codeclash/internal/aws/storage"
	"github.com/codeclash-vn/codeclash/pkg/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type server struct {
	address  string
	upgrader websocket.Upgrader

	config      Config
	coordinator *coordinator
	rooms       *roomRegistry

	storageClient *storage.Client
	recomputer    *ranking.Recomputer
}

type payload struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type errorResponse struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewServer() *server {
	cfg := NewConfig()

	// An empty region leaves resolution to the default chain.
	awsCfg, _ := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AwsRegion),
	)
	storageClient := storage.NewClient(
		dynamodb.NewFromConfig(awsCfg),
	)
	rooms := newRoomRegistry(cfg.RoomLinger, cfg.RoomIdleTimeout)
	srv := &server{
		address: "0.0.0.0:" + cfg.Port,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
		config:        cfg,
		coordinator:   newCoordinator(storageClient, rooms),
		rooms:         rooms,
		storageClient: storageClient,
		recomputer:    ranking.NewRecomputer(storageClient, cfg.RankInterval, cfg.RankBatchSize),
	}
	return srv
}

// Start method    starts the battle server
func (s *server) Start() error {
	s.recomputer.Start()
	go s.sweepRooms()

	http.HandleFunc("/battle", func(w http.ResponseWriter, r *http.Request) {
		userId, err := s.auth(r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(err.Error()))
			return
		}

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Error(
				"failed to upgrade connection",
				zap.String("error", err.Error()),
			)
			return
		}
		defer conn.Close()

		cl := newClient(conn)
		logging.Info("client connected",
			zap.String("user_id", userId),
			zap.String("channel_id", cl.ChannelId()),
		)

		for {
			if s.config.IdleTimeout > 0 {
				conn.SetReadDeadline(time.Now().Add(s.config.IdleTimeout))
			}
			_, message, err := conn.ReadMessage()
			if err != nil {
				s.handleClientDisconnect(cl)
				logging.Info(
					"connection closed",
					zap.String("remote_address", conn.RemoteAddr().String()),
					zap.Error(err),
				)
				break
			}

			p := payload{}
			if err := json.Unmarshal(message, &p); err != nil {
				logging.Info("malformed message", zap.Error(err))
				continue
			}
			s.handleWebSocketMessage(r.Context(), cl, p)
		}
	})
	logging.Info("websocket server started", zap.String("port", s.config.Port))
	return http.ListenAndServe(s.address, nil)
}

// sweepRooms reaps ended and abandoned rooms so the registry stays
// bounded over the process lifetime.
func (s *server) sweepRooms() {
	ticker := time.NewTicker(s.config.RoomSweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		if removed := s.rooms.sweep(time.Now()); removed > 0 {
			logging.Info("rooms swept", zap.Int("removed", removed))
		}
	}
}
