package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zx06/jsend"
	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/store"
)

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, xe := s.store.List(r.Context())
	if xe != nil {
		s.storeError(w, r, xe)
		return
	}
	s.respond(w, http.StatusOK, jsend.Success(map[string]any{"posts": posts}))
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var in store.NewPost
	if problems := decodeBody(w, r, &in); problems != nil {
		s.respond(w, http.StatusBadRequest, jsend.Fail(problems))
		return
	}
	p, xe := s.store.Create(r.Context(), in)
	if xe != nil {
		s.storeError(w, r, xe)
		return
	}
	w.Header().Set("Location", "/posts/"+p.ID)
	s.respond(w, http.StatusCreated, jsend.Success(map[string]any{"id": p.ID}))
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.postID(w, r)
	if !ok {
		return
	}
	p, found, xe := s.store.Get(r.Context(), id)
	if xe != nil {
		s.storeError(w, r, xe)
		return
	}
	if !found {
		s.respond(w, http.StatusNotFound, jsend.Fail(map[string]string{"id": "not found"}))
		return
	}
	s.respond(w, http.StatusOK, jsend.Success(map[string]any{"post": p}))
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.postID(w, r)
	if !ok {
		return
	}
	deleted, xe := s.store.Delete(r.Context(), id)
	if xe != nil {
		s.storeError(w, r, xe)
		return
	}
	if !deleted {
		s.respond(w, http.StatusNotFound, jsend.Fail(map[string]string{"id": "not found"}))
		return
	}
	s.respond(w, http.StatusOK, jsend.Success(nil))
}

// postID 校验路径中的 id 是 uuid。
func (s *Server) postID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		s.respond(w, http.StatusBadRequest, jsend.Fail(map[string]string{"id": "must be a valid uuid"}))
		return "", false
	}
	return id.String(), true
}

// storeError 把存储错误转成 error envelope；细节只写日志。
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, xe *errors.XError) {
	s.log.Error("store failure",
		"request_id", RequestIDFrom(r.Context()),
		"code", xe.Code,
		"err", xe.Error())
	s.respond(w, http.StatusInternalServerError,
		jsend.Error("storage unavailable", jsend.WithCode(http.StatusInternalServerError)))
}
