package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"svw.info/automaze/internal/difficulty"
	"svw.info/automaze/internal/domain"
	"svw.info/automaze/internal/generator"
	"svw.info/automaze/internal/session"
	"svw.info/automaze/internal/solver"
	"svw.info/automaze/internal/usecase"
	"svw.info/automaze/internal/validator"
)

type Handler struct {
	UC *usecase.Service
}

func New(uc *usecase.Service) *Handler { return &Handler{UC: uc} }

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/generate", h.handleGenerate)
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/api/validate", h.handleValidate)
	mux.HandleFunc("/api/hint", h.handleHint)
	mux.HandleFunc("/api/save", h.handleSave)
	mux.HandleFunc("/api/load", h.handleLoad)
	mux.HandleFunc("/api/list", h.handleList)
	mux.HandleFunc("/api/session", h.handleSessionStart)
	mux.HandleFunc("/api/session/next", h.handleSessionNext)
	mux.HandleFunc("/api/session/move", h.handleSessionMove)
	mux.HandleFunc("/api/session/hint", h.handleSessionHint)
	mux.HandleFunc("/api/session/abandon", h.handleSessionAbandon)
	mux.HandleFunc("/api/stats", h.handleStats)
}

type errorResp struct {
	Error string `json:"error"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, generator.ErrGenerationTimeout):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrSessionNotFound), errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, session.ErrLevelFinished), errors.Is(err, session.ErrNoLevel):
		return http.StatusConflict
	case errors.Is(err, difficulty.ErrInvalidTier),
		errors.Is(err, difficulty.ErrInvalidStepCount),
		errors.Is(err, generator.ErrInvalidDimensions),
		errors.Is(err, solver.ErrNilGrid),
		errors.Is(err, solver.ErrOutOfBounds),
		errors.Is(err, validator.ErrEmptyGrid),
		errors.Is(err, validator.ErrNonRectangular),
		errors.Is(err, validator.ErrMissingStart),
		errors.Is(err, validator.ErrMissingFinish),
		errors.Is(err, session.ErrInvalidDirection),
		errors.Is(err, usecase.ErrInvalidLevel):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResp{Error: msg})
}

// begin sets the JSON content type and rejects other methods.
func begin(w http.ResponseWriter, r *http.Request, method string) bool {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != method {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// decode reads the request body into v; an empty body leaves v zero.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// checkGrid rejects grids whose rows disagree with the declared size so the
// solver never indexes outside Cells.
func checkGrid(w http.ResponseWriter, g *domain.Grid) bool {
	ok := g != nil && g.Width > 0 && g.Height > 0 && len(g.Cells) == g.Height
	if ok {
		for _, row := range g.Cells {
			if len(row) != g.Width {
				ok = false
				break
			}
		}
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "grid is missing or not rectangular")
	}
	return ok
}

// endpoint returns c, or the cell tagged v when c is nil.
func endpoint(g *domain.Grid, c *domain.Coord, v domain.Cell) (domain.Coord, bool) {
	if c != nil {
		return *c, true
	}
	return g.Find(v)
}

// ---- Generate ----

type generateReq struct {
	Tier string `json:"tier,omitempty"`
	Seed int64  `json:"seed,omitempty"`
}

type generateResp struct {
	Level      *domain.Level `json:"level,omitempty"`
	Seed       int64         `json:"seed,omitempty"`
	DurationMs int64         `json:"durationMs,omitempty"`
	Attempts   int           `json:"attempts,omitempty"`
	Nodes      int           `json:"nodes,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func seedOr(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req generateReq
	if !decode(w, r, &req) {
		return
	}
	tier := domain.Tier1
	if strings.TrimSpace(req.Tier) != "" {
		t, err := difficulty.ParseTier(req.Tier)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		tier = t
	}
	seed := seedOr(req.Seed)
	l, st, err := h.UC.Generate(r.Context(), seed, tier)
	if err != nil {
		writeJSON(w, statusFor(err), generateResp{
			Error:      err.Error(),
			Seed:       seed,
			Attempts:   st.Attempts,
			DurationMs: st.Duration.Milliseconds(),
		})
		return
	}
	writeJSON(w, http.StatusOK, generateResp{
		Level:      l,
		Seed:       seed,
		DurationMs: st.Duration.Milliseconds(),
		Attempts:   st.Attempts,
		Nodes:      st.Nodes,
	})
}

// ---- Validate ----

type validateReq struct {
	Grid *domain.Grid `json:"grid"`
}
type validateResp struct {
	OK         bool           `json:"ok"`
	Violations []domain.Coord `json:"violations,omitempty"`
	Error      string         `json:"error,omitempty"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req validateReq
	if !decode(w, r, &req) {
		return
	}
	ok, violations, err := h.UC.Validate(r.Context(), req.Grid)
	if err != nil {
		writeJSON(w, statusFor(err), validateResp{Violations: violations, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, validateResp{OK: ok, Violations: violations})
}

// ---- Solve ----

type solveReq struct {
	Grid   *domain.Grid  `json:"grid"`
	Start  *domain.Coord `json:"start,omitempty"`
	Finish *domain.Coord `json:"finish,omitempty"`
}
type solveResp struct {
	Found      bool           `json:"found"`
	MinSteps   int            `json:"minSteps"`
	Path       []domain.Coord `json:"path,omitempty"`
	DurationMs int64          `json:"durationMs,omitempty"`
	Nodes      int            `json:"nodes,omitempty"`
	Error      string         `json:"error,omitempty"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req solveReq
	if !decode(w, r, &req) || !checkGrid(w, req.Grid) {
		return
	}
	start, okS := endpoint(req.Grid, req.Start, domain.Start)
	finish, okF := endpoint(req.Grid, req.Finish, domain.Finish)
	if !okS || !okF {
		writeError(w, http.StatusBadRequest, "start and finish are required")
		return
	}
	res, st, err := h.UC.Solve(r.Context(), req.Grid, start, finish)
	if err != nil {
		writeJSON(w, statusFor(err), solveResp{Error: err.Error(), Nodes: st.Nodes})
		return
	}
	writeJSON(w, http.StatusOK, solveResp{
		Found:      res.Found,
		MinSteps:   res.MinSteps,
		Path:       res.Path,
		DurationMs: st.Duration.Milliseconds(),
		Nodes:      st.Nodes,
	})
}

// ---- Hint ----

type hintReq struct {
	Grid   *domain.Grid  `json:"grid"`
	From   *domain.Coord `json:"from,omitempty"`
	Finish *domain.Coord `json:"finish,omitempty"`
}
type hintResp struct {
	Found bool         `json:"found"`
	Hint  *domain.Hint `json:"hint,omitempty"`
	Error string       `json:"error,omitempty"`
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req hintReq
	if !decode(w, r, &req) || !checkGrid(w, req.Grid) {
		return
	}
	from, okS := endpoint(req.Grid, req.From, domain.Start)
	finish, okF := endpoint(req.Grid, req.Finish, domain.Finish)
	if !okS || !okF {
		writeError(w, http.StatusBadRequest, "from and finish are required")
		return
	}
	hh, ok, err := h.UC.Hint(r.Context(), req.Grid, from, finish)
	if err != nil {
		writeJSON(w, statusFor(err), hintResp{Error: err.Error()})
		return
	}
	resp := hintResp{Found: ok}
	if ok {
		resp.Hint = &hh
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---- Save / Load / List ----

type saveResp struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var l domain.Level
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeJSON(w, http.StatusBadRequest, saveResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if !checkGrid(w, l.Grid) {
		return
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt == 0 {
		l.CreatedAt = time.Now().UnixNano()
	}
	if err := h.UC.Save(r.Context(), &l); err != nil {
		writeJSON(w, statusFor(err), saveResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, saveResp{ID: l.ID})
}

type loadReq struct {
	ID string `json:"id"`
}
type loadResp struct {
	Level *domain.Level `json:"level,omitempty"`
	Error string        `json:"error,omitempty"`
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req loadReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, loadResp{Error: "invalid JSON or missing id"})
		return
	}
	l, err := h.UC.Load(r.Context(), req.ID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, loadResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, loadResp{Level: l})
}

type listResp struct {
	Levels []domain.LevelMeta `json:"levels"`
	Error  string             `json:"error,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodGet) {
		return
	}
	ls, err := h.UC.List(r.Context())
	if err != nil {
		writeJSON(w, statusFor(err), listResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, listResp{Levels: ls})
}

// ---- Sessions ----

type sessionReq struct {
	ID        string `json:"id,omitempty"`
	Player    string `json:"player,omitempty"`
	Seed      int64  `json:"seed,omitempty"`
	Direction string `json:"direction,omitempty"`
}

type sessionResp struct {
	Session *usecase.SessionView `json:"session,omitempty"`
	Move    *session.MoveResult  `json:"move,omitempty"`
	Hint    *domain.Hint         `json:"hint,omitempty"`
	Record  *domain.StatRecord   `json:"record,omitempty"`
	Error   string               `json:"error,omitempty"`
}

func (h *Handler) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req sessionReq
	if !decode(w, r, &req) {
		return
	}
	v, err := h.UC.StartSession(r.Context(), req.Player, seedOr(req.Seed))
	if err != nil {
		writeJSON(w, statusFor(err), sessionResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessionResp{Session: &v})
}

func (h *Handler) handleSessionNext(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req sessionReq
	if !decode(w, r, &req) {
		return
	}
	v, err := h.UC.NextLevel(r.Context(), req.ID, seedOr(req.Seed))
	if err != nil {
		writeJSON(w, statusFor(err), sessionResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessionResp{Session: &v})
}

func (h *Handler) handleSessionMove(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req sessionReq
	if !decode(w, r, &req) {
		return
	}
	dir, ok := domain.ParseDirection(req.Direction)
	if !ok {
		writeError(w, http.StatusBadRequest, "direction must be one of n, ne, e, se, s, sw, w, nw")
		return
	}
	res, v, err := h.UC.Move(r.Context(), req.ID, dir)
	if err != nil {
		writeJSON(w, statusFor(err), sessionResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessionResp{Session: &v, Move: &res})
}

func (h *Handler) handleSessionHint(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req sessionReq
	if !decode(w, r, &req) {
		return
	}
	hh, ok, err := h.UC.SessionHint(r.Context(), req.ID)
	if err != nil {
		writeJSON(w, statusFor(err), sessionResp{Error: err.Error()})
		return
	}
	resp := sessionResp{}
	if ok {
		resp.Hint = &hh
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSessionAbandon(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req sessionReq
	if !decode(w, r, &req) {
		return
	}
	rec, err := h.UC.Abandon(r.Context(), req.ID)
	if err != nil {
		writeJSON(w, statusFor(err), sessionResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessionResp{Record: rec})
}

// ---- Stats ----

type statsResp struct {
	Records []domain.StatRecord `json:"records"`
	Error   string              `json:"error,omitempty"`
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodGet) {
		return
	}
	recs, err := h.UC.Stats(r.Context())
	if err != nil {
		writeJSON(w, statusFor(err), statsResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, statsResp{Records: recs})
}
