package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"housetemp/calculator"
	"housetemp/material"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	cfg      calculator.Config
	catalog  *material.Catalog
}

func NewServer(addr string, upgrader websocket.Upgrader, cfg calculator.Config, catalog *material.Catalog) *Server {
	return &Server{
		addr:     addr,
		upgrader: upgrader,
		cfg:      cfg,
		catalog:  catalog,
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket 升级失败")
		return
	}
	hub := NewHub(conn, s.cfg, s.catalog)
	hub.serve()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

func (s *Server) Serve() error {
	log.WithField("addr", s.addr).Info("服务启动")
	return http.ListenAndServe(s.addr, s.Handler())
}
