package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/dtroode/cloudblog/internal/model"
)

const multipartMemory = 8 << 20

// Index lists every post.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListPosts(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.render(w, r, "index", http.StatusOK, pageData{Title: "Home", Posts: posts})
}

// CreatePostForm renders the new post page.
func (h *Handler) CreatePostForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "create_post", http.StatusOK, pageData{Title: "New Post"})
}

// CreatePost uploads the optional image and stores the post under the
// session username.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	author, _ := h.contextManager.GetUsernameFromContext(r.Context())

	if h.opts.MaxUploadBytes > 0 {
		if r.ContentLength > h.opts.MaxUploadBytes {
			h.flash(w, r, "Image is too large.")
			h.redirect(w, r, "/create")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.flash(w, r, "Image is too large.")
			h.redirect(w, r, "/create")
			return
		}
		h.handleError(w, r, err)
		return
	}

	params := model.CreatePostParams{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Author:  author,
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		if header.Filename != "" {
			imageURL, err := h.images.UploadImage(r.Context(), file, header.Size, header.Filename)
			if err != nil {
				h.handleError(w, r, err)
				return
			}
			params.ImageURL = imageURL
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.handleError(w, r, err)
		return
	}

	id, err := h.posts.CreatePost(r.Context(), params)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.flash(w, r, "Post created successfully!")
	h.redirect(w, r, "/post/"+url.PathEscape(id))
}

// ViewPost renders one post or sends the visitor home when it does not exist.
func (h *Handler) ViewPost(w http.ResponseWriter, r *http.Request) {
	post, found, err := h.posts.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if !found {
		h.flash(w, r, "Post not found.")
		h.redirect(w, r, "/")
		return
	}

	h.render(w, r, "post", http.StatusOK, pageData{Title: post.Title, Post: post})
}
