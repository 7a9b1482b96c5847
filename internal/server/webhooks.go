package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/angelajfisher/conference-bridge/internal/types"
)

const (
	SignatureHeader = "X-Bridge-Signature"
	signaturePrefix = "sha256="
	maxBodyBytes    = 64 << 10

	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

// Body of an event from the JavaScript emitter
type NamedEvent struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

// Body of a native broadcast. Extras stays raw so that a malformed bundle
// reaches the classifier instead of failing the request.
type BroadcastEvent struct {
	Action string          `json:"action"`
	Extras json.RawMessage `json:"extras"`
}

type KindInfo struct {
	Kind      string `json:"kind"`
	Action    string `json:"action"`
	ShortName string `json:"shortName"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (sc *Config) handleNamedEvent(w http.ResponseWriter, r *http.Request, body []byte) {
	var event NamedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event body: " + err.Error()})
		return
	}

	intent, ok := sc.Orchestrator.HandleNamed(event.Name, event.Data)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "unrecognized event name: " + event.Name})
		return
	}
	writeJSON(w, http.StatusAccepted, intent)
}

func (sc *Config) handleBroadcast(w http.ResponseWriter, r *http.Request, body []byte) {
	var event BroadcastEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid broadcast body: " + err.Error()})
		return
	}

	var extras map[string]any
	if len(event.Extras) > 0 {
		if err := json.Unmarshal(event.Extras, &extras); err != nil {
			log.Printf("warn: broadcast %q has extras that are not an object: %s", event.Action, err)
			extras = nil
		}
	}

	intent, ok := sc.Orchestrator.HandleBroadcast(event.Action, extras)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "unrecognized broadcast action: " + event.Action})
		return
	}
	writeJSON(w, http.StatusAccepted, intent)
}

func (sc *Config) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(parsed, maxRecentLimit)
	}

	records, err := sc.Orchestrator.RecentEvents(limit)
	if err != nil {
		log.Println(err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not read events"})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (sc *Config) handleConference(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sc.Orchestrator.Conference())
}

func handleKinds(w http.ResponseWriter, _ *http.Request) {
	kinds := make([]KindInfo, 0, len(types.AllKinds()))
	for _, kind := range types.AllKinds() {
		kinds = append(kinds, KindInfo{Kind: kind.String(), Action: kind.Action(), ShortName: kind.ShortName()})
	}
	writeJSON(w, http.StatusOK, kinds)
}

// verified reads the body and checks its signature before passing it on
func (sc *Config) verified(next func(http.ResponseWriter, *http.Request, []byte)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqBody, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "body too large"})
				return
			}
			log.Println(err)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "could not read body"})
			return
		}

		if sc.Secret != "" && !ValidSignature(sc.Secret, reqBody, r.Header.Get(SignatureHeader)) {
			log.Printf("warn: rejected %s with invalid signature", r.URL.Path)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid signature"})
			return
		}

		next(w, r, reqBody)
	}
}

// Sign returns the signature header value for body
func Sign(secret string, body []byte) string {
	hasher := hmac.New(sha256.New, []byte(secret))
	hasher.Write(body)

	return signaturePrefix + hex.EncodeToString(hasher.Sum(nil))
}

func ValidSignature(secret string, body []byte, header string) bool {
	digest, found := strings.CutPrefix(header, signaturePrefix)
	if !found {
		return false
	}
	got, err := hex.DecodeString(digest)
	if err != nil {
		return false
	}

	hasher := hmac.New(sha256.New, []byte(secret))
	hasher.Write(body)
	return hmac.Equal(hasher.Sum(nil), got)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	retBody, err := json.Marshal(v)
	if err != nil {
		log.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(retBody); err != nil {
		log.Println(err)
	}
}
