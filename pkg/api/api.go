// Package api implements the HTTP handlers for the ECC demo server:
// curve inspection, Dual_EC_DRBG sessions, the backdoor attack, key
// agreement, signatures and primality testing.
package api

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lukau2357/ecc-go/pkg/crypto/backdoor"
	"github.com/lukau2357/ecc-go/pkg/crypto/curve"
	"github.com/lukau2357/ecc-go/pkg/crypto/dualec"
	"github.com/lukau2357/ecc-go/pkg/crypto/ecdh"
	"github.com/lukau2357/ecc-go/pkg/crypto/ecdsa"
	"github.com/lukau2357/ecc-go/pkg/crypto/primes"
	"github.com/lukau2357/ecc-go/pkg/storage"
)

// maxBlocksPerRequest bounds one generation call so a single request
// cannot hold the session lock for long.
const maxBlocksPerRequest = 256

// Handlers contains all demo API handlers
type Handlers struct {
	store  storage.Store
	config Config
}

// Config contains configuration for the demo handlers
type Config struct {
	// PredictBlocks is how many future blocks the attack endpoint
	// predicts to demonstrate the compromise.
	PredictBlocks int

	// PrimeTrials is the Miller-Rabin round count for the primality
	// endpoint.
	PrimeTrials int
}

// NewHandlers creates new demo API handlers
func NewHandlers(store storage.Store, config Config) *Handlers {
	if config.PredictBlocks <= 0 {
		config.PredictBlocks = 5
	}
	if config.PrimeTrials <= 0 {
		config.PrimeTrials = primes.DefaultTrials
	}
	return &Handlers{store: store, config: config}
}

// PointDTO is a curve point in decimal string form, so 256-bit
// coordinates survive JSON without precision loss.
type PointDTO struct {
	X string `json:"x"`
	Y string `json:"y"`
}

func toPointDTO(p *curve.Point) *PointDTO {
	if p.IsIdentity() {
		return nil
	}
	return &PointDTO{X: p.X.String(), Y: p.Y.String()}
}

// CurveInfo describes one supported preset.
type CurveInfo struct {
	Name      string    `json:"name"`
	P         string    `json:"p"`
	A         string    `json:"a"`
	B         string    `json:"b"`
	Generator *PointDTO `json:"generator"`
	Order     string    `json:"order"`
	Bits      int       `json:"bits"`
}

func curveInfo(c *curve.Curve) CurveInfo {
	return CurveInfo{
		Name:      c.Name,
		P:         c.P.String(),
		A:         c.A.String(),
		B:         c.B.String(),
		Generator: toPointDTO(c.Generator()),
		Order:     c.N.String(),
		Bits:      c.P.BitLen(),
	}
}

// BlockDTO is one DRBG output block.
type BlockDTO struct {
	Index             int    `json:"index"`
	Value             string `json:"value"`
	Bits              int    `json:"bits"`
	ReseedRecommended bool   `json:"reseed_recommended,omitempty"`
}

func toBlockDTO(b *dualec.Block) BlockDTO {
	return BlockDTO{
		Index:             b.Index,
		Value:             b.Value.String(),
		Bits:              b.Bits,
		ReseedRecommended: b.ReseedRecommended,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ListCurves handles GET /v1/curves
func (h *Handlers) ListCurves(w http.ResponseWriter, r *http.Request) {
	names := curve.SupportedCurves()
	infos := make([]CurveInfo, 0, len(names))
	for _, name := range names {
		c, err := curve.FromName(name)
		if err != nil {
			http.Error(w, "curve registry error", http.StatusInternalServerError)
			return
		}
		infos = append(infos, curveInfo(c))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"curves": infos})
}

// GetCurve handles GET /v1/curves/{name}
func (h *Handlers) GetCurve(w http.ResponseWriter, r *http.Request) {
	c, err := curve.FromName(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, curveInfo(c))
}

// ListCurvePoints handles GET /v1/curves/{name}/points. Only the toy
// presets are small enough to enumerate.
func (h *Handlers) ListCurvePoints(w http.ResponseWriter, r *http.Request) {
	c, err := curve.FromName(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	points, err := c.Points()
	if err != nil {
		if errors.Is(err, curve.ErrCurveTooLarge) {
			http.Error(w, "curve too large to enumerate", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]*PointDTO, 0, len(points))
	for _, p := range points {
		dtos = append(dtos, toPointDTO(p))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"curve":  c.Name,
		"count":  len(dtos),
		"points": dtos,
	})
}

// CreateSessionRequest starts a DRBG demonstration session.
type CreateSessionRequest struct {
	Curve        string `json:"curve"`         // preset name, default demo65519
	TruncateBits uint   `json:"truncate_bits"` // 0 = generator default
	Seed         string `json:"seed"`          // entropy string, required
}

// CreateSessionResponse returns the public session parameters. The
// backdoor scalar deliberately stays server-side.
type CreateSessionResponse struct {
	SessionID    string    `json:"session_id"`
	Curve        string    `json:"curve"`
	P            *PointDTO `json:"p"`
	Q            *PointDTO `json:"q"`
	TruncateBits uint      `json:"truncate_bits"`
	OutputBits   int       `json:"output_bits"`
}

// CreateSession handles POST /v1/drbg/sessions. The server draws a
// random backdoor scalar e, publishes P and Q = e*P, and keeps e for
// the attack endpoint.
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Curve == "" {
		req.Curve = "demo65519"
	}
	if req.Seed == "" {
		http.Error(w, "seed is required", http.StatusBadRequest)
		return
	}

	c, err := curve.FromName(req.Curve)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	P := c.Generator()
	e, Q, err := backdooredPoint(c, P)
	if err != nil {
		http.Error(w, "failed to derive parameters", http.StatusInternalServerError)
		return
	}

	cfg := dualec.Config{TruncateBits: req.TruncateBits}
	gen, err := dualec.New(c, P, Q, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	gen.Seed([]byte(req.Seed))

	session := &storage.DRBGSession{
		ID:           uuid.New().String(),
		Curve:        c.Name,
		TruncateBits: gen.Config().TruncateBits,
		P:            P,
		Q:            Q,
		Backdoor:     e,
		Generator:    gen,
	}

	if err := h.store.CreateSession(session); err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, CreateSessionResponse{
		SessionID:    session.ID,
		Curve:        session.Curve,
		P:            toPointDTO(P),
		Q:            toPointDTO(Q),
		TruncateBits: session.TruncateBits,
		OutputBits:   gen.OutputBits(),
	})
}

// backdooredPoint draws a random invertible scalar e and returns it
// with Q = e*P.
func backdooredPoint(c *curve.Curve, P *curve.Point) (*big.Int, *curve.Point, error) {
	for attempt := 0; attempt < 64; attempt++ {
		e, err := c.RandomScalar(rand.Reader)
		if err != nil {
			return nil, nil, err
		}
		// e must be invertible mod n for the attack to work.
		if new(big.Int).ModInverse(e, c.N) == nil {
			continue
		}
		Q, err := c.ScalarMult(e, P)
		if err != nil {
			return nil, nil, err
		}
		if Q.IsIdentity() {
			continue
		}
		return e, Q, nil
	}
	return nil, nil, fmt.Errorf("no invertible scalar found")
}

// GetSession handles GET /v1/drbg/sessions/{id}
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}

	blocks := make([]BlockDTO, 0, len(session.Blocks))
	for _, b := range session.Blocks {
		blocks = append(blocks, toBlockDTO(b))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":    session.ID,
		"curve":         session.Curve,
		"p":             toPointDTO(session.P),
		"q":             toPointDTO(session.Q),
		"truncate_bits": session.TruncateBits,
		"blocks":        blocks,
		"created_at":    session.CreatedAt,
	})
}

// DeleteSession handles DELETE /v1/drbg/sessions/{id}
func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSession(chi.URLParam(r, "id")); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateRequest asks for more output blocks.
type GenerateRequest struct {
	Count int `json:"count"`
}

// GenerateBlocks handles POST /v1/drbg/sessions/{id}/blocks
func (h *Handlers) GenerateBlocks(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}
	if req.Count > maxBlocksPerRequest {
		http.Error(w, fmt.Sprintf("count exceeds maximum of %d", maxBlocksPerRequest), http.StatusBadRequest)
		return
	}

	var fresh []BlockDTO
	err := h.store.WithSession(chi.URLParam(r, "id"), func(s *storage.DRBGSession) error {
		for i := 0; i < req.Count; i++ {
			block, err := s.Generator.GenerateBlock()
			if err != nil {
				return err
			}
			s.Blocks = append(s.Blocks, block)
			fresh = append(fresh, toBlockDTO(block))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, dualec.ErrDegenerateState) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"blocks": fresh})
}

// AttackResponse reports a state recovery run.
type AttackResponse struct {
	Recovered       bool       `json:"recovered"`
	State           string     `json:"state,omitempty"`
	CandidatesTried int        `json:"candidates_tried"`
	VerifiedBlocks  int        `json:"verified_blocks,omitempty"`
	Predicted       []BlockDTO `json:"predicted,omitempty"`
	Matched         int        `json:"matched,omitempty"`
	Error           string     `json:"error,omitempty"`
}

// Attack handles POST /v1/drbg/sessions/{id}/attack: it runs the
// backdoor state recovery against the session's published blocks, then
// proves the compromise by predicting blocks the generator has not
// produced yet and generating them for comparison.
func (h *Handlers) Attack(w http.ResponseWriter, r *http.Request) {
	var resp AttackResponse

	err := h.store.WithSession(chi.URLParam(r, "id"), func(s *storage.DRBGSession) error {
		if len(s.Blocks) < 2 {
			return backdoor.ErrInsufficientBlocks
		}

		crv, err := curve.FromName(s.Curve)
		if err != nil {
			return err
		}

		atk, err := backdoor.New(crv, s.Backdoor, s.P, s.Q, dualec.Config{TruncateBits: s.TruncateBits})
		if err != nil {
			return err
		}
		for _, b := range s.Blocks {
			if err := atk.Observe(b); err != nil {
				return err
			}
		}

		rec, err := atk.RecoverState()
		if err != nil {
			return err
		}

		s.Recovered = rec.State
		resp.Recovered = true
		resp.State = rec.State.String()
		resp.CandidatesTried = rec.CandidatesTried
		resp.VerifiedBlocks = rec.VerifiedBlocks

		// Predict past the observed window, then let the real
		// generator catch up and count the matches.
		total := len(s.Blocks) - 1 + h.config.PredictBlocks
		predicted, err := atk.Predict(rec, total)
		if err != nil {
			return err
		}
		future := predicted[len(s.Blocks)-1:]

		matched := 0
		for _, p := range future {
			actual, err := s.Generator.GenerateBlock()
			if err != nil {
				return err
			}
			s.Blocks = append(s.Blocks, actual)
			resp.Predicted = append(resp.Predicted, BlockDTO{
				Index: actual.Index,
				Value: p.Value.String(),
				Bits:  p.Bits,
			})
			if p.Value.Cmp(actual.Value) == 0 {
				matched++
			}
		}
		resp.Matched = matched
		return nil
	})
	if err != nil {
		var sre *backdoor.StateRecoveryError
		if errors.As(err, &sre) {
			resp.Error = sre.Error()
			resp.CandidatesTried = sre.CandidatesTried
			writeJSON(w, http.StatusOK, resp)
			return
		}
		if errors.Is(err, backdoor.ErrInsufficientBlocks) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// PredictRequest asks for blocks derived from a recovered state.
type PredictRequest struct {
	Count int `json:"count"`
}

// Predict handles POST /v1/drbg/sessions/{id}/predict: after a
// successful attack, it replays the session's entire published stream
// from the recovered state without touching the live generator.
func (h *Handlers) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Count <= 0 {
		req.Count = h.config.PredictBlocks
	}
	if req.Count > maxBlocksPerRequest {
		http.Error(w, fmt.Sprintf("count exceeds maximum of %d", maxBlocksPerRequest), http.StatusBadRequest)
		return
	}

	var blocks []BlockDTO
	err := h.store.WithSession(chi.URLParam(r, "id"), func(s *storage.DRBGSession) error {
		if s.Recovered == nil {
			return fmt.Errorf("no recovered state; run the attack first")
		}

		crv, err := curve.FromName(s.Curve)
		if err != nil {
			return err
		}
		replay, err := dualec.Resume(crv, s.P, s.Q, s.Recovered, dualec.Config{TruncateBits: s.TruncateBits})
		if err != nil {
			return err
		}
		for i := 0; i < req.Count; i++ {
			b, err := replay.GenerateBlock()
			if err != nil {
				return err
			}
			blocks = append(blocks, toBlockDTO(b))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) || errors.Is(err, storage.ErrSessionExpired) {
			writeStorageError(w, err)
			return
		}
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"predicted": blocks})
}

// ECDHRequest runs a demonstration key agreement.
type ECDHRequest struct {
	Curve string `json:"curve"`
}

// ECDH handles POST /v1/ecdh: it generates two fresh key pairs and
// shows both sides arriving at the same shared secret.
func (h *Handlers) ECDH(w http.ResponseWriter, r *http.Request) {
	var req ECDHRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Curve == "" {
		req.Curve = "demo65519"
	}

	c, err := curve.FromName(req.Curve)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	alice, err := ecdh.GenerateKey(c, rand.Reader)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	bob, err := ecdh.GenerateKey(c, rand.Reader)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sa, err := alice.SharedSecret(bob.PublicKey())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sb, err := bob.SharedSecret(alice.PublicKey())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"curve":        c.Name,
		"alice_public": toPointDTO(alice.PublicKey()),
		"bob_public":   toPointDTO(bob.PublicKey()),
		"alice_secret": sa.String(),
		"bob_secret":   sb.String(),
		"agreed":       sa.Cmp(sb) == 0,
	})
}

// SignRequest signs a message with a fresh demonstration key.
type SignRequest struct {
	Curve   string `json:"curve"`
	Message string `json:"message"`
}

// SignResponse carries everything needed to verify later.
type SignResponse struct {
	Curve     string    `json:"curve"`
	PublicKey *PointDTO `json:"public_key"`
	R         string    `json:"r"`
	S         string    `json:"s"`
}

// Sign handles POST /v1/ecdsa/sign
func (h *Handlers) Sign(w http.ResponseWriter, r *http.Request) {
	var req SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Curve == "" {
		req.Curve = "secp256k1"
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	c, err := curve.FromName(req.Curve)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key, err := ecdsa.GenerateKey(c, rand.Reader)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sig, err := key.Sign(rand.Reader, []byte(req.Message))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, SignResponse{
		Curve:     c.Name,
		PublicKey: toPointDTO(key.PublicKey()),
		R:         sig.R.String(),
		S:         sig.S.String(),
	})
}

// VerifyRequest checks a signature produced by the sign endpoint.
type VerifyRequest struct {
	Curve     string    `json:"curve"`
	Message   string    `json:"message"`
	PublicKey *PointDTO `json:"public_key"`
	R         string    `json:"r"`
	S         string    `json:"s"`
}

// Verify handles POST /v1/ecdsa/verify
func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Curve == "" {
		req.Curve = "secp256k1"
	}

	c, err := curve.FromName(req.Curve)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pub, err := parsePoint(c, req.PublicKey)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid public key: %v", err), http.StatusBadRequest)
		return
	}

	sigR, ok1 := new(big.Int).SetString(req.R, 10)
	sigS, ok2 := new(big.Int).SetString(req.S, 10)
	if !ok1 || !ok2 {
		http.Error(w, "invalid signature encoding", http.StatusBadRequest)
		return
	}

	valid, err := ecdsa.Verify(c, pub, []byte(req.Message), &ecdsa.Signature{R: sigR, S: sigS})
	if err != nil && !errors.Is(err, ecdsa.ErrInvalidSignature) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"valid": valid && err == nil})
}

// PrimeRequest tests a candidate for primality.
type PrimeRequest struct {
	Candidate string `json:"candidate"`
	Trials    int    `json:"trials"`
}

// Prime handles POST /v1/primes
func (h *Handlers) Prime(w http.ResponseWriter, r *http.Request) {
	var req PrimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	n, ok := new(big.Int).SetString(req.Candidate, 10)
	if !ok {
		http.Error(w, "invalid candidate encoding", http.StatusBadRequest)
		return
	}
	trials := req.Trials
	if trials <= 0 {
		trials = h.config.PrimeTrials
	}

	res, err := primes.Test(r.Context(), n, primes.Options{Trials: trials})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := map[string]interface{}{
		"candidate":   req.Candidate,
		"prime":       res.Prime,
		"trials":      res.Trials,
		"error_bound": res.ErrorBound(),
		"elapsed_ms":  float64(res.Elapsed) / float64(time.Millisecond),
	}
	if res.Witness != nil {
		resp["witness"] = res.Witness.String()
	}

	writeJSON(w, http.StatusOK, resp)
}

// GeneratePrimeRequest asks for a fresh probable prime.
type GeneratePrimeRequest struct {
	Bits   int `json:"bits"`
	Trials int `json:"trials"`
}

// maxPrimeBits keeps one request's search affordable.
const maxPrimeBits = 1024

// GeneratePrime handles POST /v1/primes/generate
func (h *Handlers) GeneratePrime(w http.ResponseWriter, r *http.Request) {
	var req GeneratePrimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Bits <= 0 {
		req.Bits = 64
	}
	if req.Bits > maxPrimeBits {
		http.Error(w, fmt.Sprintf("bit size exceeds maximum of %d", maxPrimeBits), http.StatusBadRequest)
		return
	}
	trials := req.Trials
	if trials <= 0 {
		trials = h.config.PrimeTrials
	}

	gen, err := primes.Generate(r.Context(), req.Bits, primes.Options{Trials: trials})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"prime":      gen.Prime.String(),
		"bits":       gen.Prime.BitLen(),
		"candidates": gen.Candidates,
		"elapsed_ms": float64(gen.Elapsed) / float64(time.Millisecond),
	})
}

// Stats handles GET /v1/stats when the store supports it.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	type statser interface {
		Stats() map[string]int
	}
	if s, ok := h.store.(statser); ok {
		writeJSON(w, http.StatusOK, s.Stats())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{})
}

func parsePoint(c *curve.Curve, dto *PointDTO) (*curve.Point, error) {
	if dto == nil {
		return nil, fmt.Errorf("point is required")
	}
	x, ok1 := new(big.Int).SetString(dto.X, 10)
	y, ok2 := new(big.Int).SetString(dto.Y, 10)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("invalid coordinate encoding")
	}
	return c.NewPoint(x, y)
}

func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrSessionExpired):
		http.Error(w, "session expired", http.StatusGone)
	default:
		http.Error(w, "storage error", http.StatusInternalServerError)
	}
}
