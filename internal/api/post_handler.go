package api

import (
	"log/slog"
	"net/http"

	"github.com/inkhq/inkwell-api/internal/api/shared"
	"github.com/inkhq/inkwell-api/internal/service"
)

// PostHandler handles post API requests.
type PostHandler struct {
	posts  service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a new PostHandler with the given dependencies.
func NewPostHandler(posts service.PostService, log *slog.Logger) *PostHandler {
	if log == nil {
		log = slog.Default()
	}

	return &PostHandler{
		posts:  posts,
		logger: log.With("component", "post_handler"),
	}
}

// Create handles POST /posts. The author is always the authenticated caller.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	post, err := h.posts.Create(r.Context(), actor.UserID, service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, post)
}

// Get handles GET /posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, post)
}

// List handles GET /posts. With ?author=<id> it lists one user's posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	if author := r.URL.Query().Get("author"); author != "" {
		h.listByAuthor(w, r, author)
		return
	}

	posts, err := h.posts.GetAll(r.Context())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, posts)
}

func (h *PostHandler) listByAuthor(w http.ResponseWriter, r *http.Request, author string) {
	id, err := parseID(author)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid author parameter")
		return
	}

	posts, err := h.posts.ListByAuthor(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, posts)
}

// Update handles PUT /posts/{id}. The actor computed by the auth
// middleware carries the admin claim, so ownership is decided here in a
// single pass with no extra fetch.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdatePostRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	post, err := h.posts.Update(r.Context(), id, actor, service.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, post)
}

// Delete handles DELETE /posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.posts.Delete(r.Context(), id, actor); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
