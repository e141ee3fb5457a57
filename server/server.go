// Package server exposes the multi-player environment over HTTP, replacing
// the stdin/stdout protocol of the original game engine.
package server

import (
	"bytes"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rmohan/halite-rl-env/halite"
	"github.com/rmohan/halite-rl-env/haliteenv"
	"github.com/rmohan/halite-rl-env/rl"
)

type session struct {
	mu  sync.Mutex
	env *haliteenv.Env
}

// Server hosts independent environment sessions keyed by id.
type Server struct {
	router *gin.Engine
	consts halite.Constants

	mu       sync.Mutex
	sessions map[string]*session
	nextID   uint64
}

func New(consts halite.Constants) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		router:   gin.New(),
		consts:   consts,
		sessions: make(map[string]*session),
	}
	s.router.POST("/sessions", s.createSession)
	s.router.POST("/sessions/:id/step", s.step)
	s.router.POST("/sessions/:id/reset", s.reset)
	s.router.GET("/sessions/:id/render", s.render)
	s.router.DELETE("/sessions/:id", s.deleteSession)
	return s
}

// Router is exported for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) error {
	log.Info().Str("addr", addr).Msg("serving environment sessions")
	return s.router.Run(addr)
}

func (s *Server) session(c *gin.Context) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return nil, false
	}
	return sess, true
}

type createRequest struct {
	Players int    `json:"players"`
	Size    int    `json:"size"`
	Seed    uint64 `json:"seed"`
	MapType string `json:"map_type"`
}

func (s *Server) createSession(c *gin.Context) {
	req := createRequest{Players: 2, Size: int(halite.MapTiny), MapType: "fractal"}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
			return
		}
	}
	mapType, err := halite.ParseMapType(req.MapType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	env, err := haliteenv.NewEnv(haliteenv.EnvConfig{
		Players:   req.Players,
		Size:      halite.MapSize(req.Size),
		MapType:   mapType,
		Seed:      req.Seed,
		Constants: s.consts,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.nextID++
	id := strconv.FormatUint(s.nextID, 10)
	s.sessions[id] = &session{env: env}
	s.mu.Unlock()

	log.Info().Str("session", id).Int("players", req.Players).Int("size", req.Size).Msg("session created")
	c.JSON(http.StatusOK, gin.H{"id": id, "observation": env.Game().Observation()})
}

type commandJSON struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Command string `json:"command"`
}

type stepRequest struct {
	Commands [][]commandJSON `json:"commands"`
}

func (s *Server) step(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	cmds := make([]halite.CommandSet, len(req.Commands))
	for i, playerCmds := range req.Commands {
		set := make(halite.CommandSet, len(playerCmds))
		for _, pc := range playerCmds {
			cmd, err := halite.ParseCommand(pc.Command)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			set[halite.Point{X: pc.X, Y: pc.Y}] = cmd
		}
		cmds[i] = set
	}

	obs, rewards, done, err := sess.env.Step(cmds)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"observation": obs,
		"rewards":     rewards,
		"done":        done,
		"turn":        obs.Turn,
	})
}

func (s *Server) reset(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	obs, err := sess.env.Reset()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"observation": obs})
}

func (s *Server) render(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	// snapshot under the lock so rendering does not block the session
	sess.mu.Lock()
	board := sess.env.Game().Board.Clone()
	sess.mu.Unlock()

	w, err := rl.LayerHeatMap(board.Halite, board.Width, board.Height, "sea halite")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) deleteSession(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	if _, ok := s.sessions[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	delete(s.sessions, id)
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
