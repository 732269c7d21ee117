// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/folio/internal/content"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/pkg/pagination"
)

const (
	contentTypeHTML     = "text/html; charset=utf-8"
	contentTypeMarkdown = "text/markdown; charset=utf-8"
)

// # Definitions & Constructors

// Handler serves the public site.
type Handler struct {
	reader Reader
	cache  Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

/*
NewHandler constructs a new site [Handler].

Parameters:
  - reader: Reader
  - cache: Cache (nil renders every request)
  - ttl: time.Duration (lifetime of cached responses)
  - logger: *slog.Logger
*/
func NewHandler(reader Reader, cache Cache, ttl time.Duration, logger *slog.Logger) *Handler {
	if ttl <= 0 {
		ttl = constants.DefaultSiteCacheTTL
	}
	return &Handler{reader: reader, cache: cache, ttl: ttl, logger: logger}
}

// RegisterRoutes mounts the public pages on router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.index)
	router.Get("/books/{bookSlug}", handler.book)
	router.Get("/books/{bookSlug}/pages/{pageSlug}", handler.page)
	router.Get("/books/{bookSlug}/chapters/{chapterSlug}/pages/{pageSlug}", handler.page)
	router.Get("/articles", handler.articles)
	router.Get("/articles/{id}", handler.article)
}

// response is a rendered body as stored in the cache.
type response struct {
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// # Views

func (handler *Handler) index(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	handler.serve(writer, request, func(ctx context.Context) (*response, error) {
		books, total, err := handler.reader.Books(ctx, params.Limit, params.Offset())
		if err != nil {
			return nil, err
		}
		return html("index", shelfView{Books: books, Pager: newPager(params.Page, params.Limit, total)})
	})
}

func (handler *Handler) book(writer http.ResponseWriter, request *http.Request) {
	bookSlug := requestutil.Param(request, "bookSlug")

	handler.serve(writer, request, func(ctx context.Context) (*response, error) {
		book, err := handler.reader.Book(ctx, bookSlug)
		if err != nil {
			return nil, err
		}
		crumbs := []Crumb{{Name: "Books", URL: "/"}, {Name: book.Name}}
		return html("book", bookView{Book: book, Crumbs: crumbs})
	})
}

// page serves both the top-level and the chapter route; chapterSlug is empty
// for the former.
func (handler *Handler) page(writer http.ResponseWriter, request *http.Request) {
	bookSlug := requestutil.Param(request, "bookSlug")
	chapterSlug := requestutil.Param(request, "chapterSlug")
	pageSlug := requestutil.Param(request, "pageSlug")
	markdown := wantsMarkdown(request)

	handler.serve(writer, request, func(ctx context.Context) (*response, error) {
		page, err := handler.reader.Page(ctx, bookSlug, chapterSlug, pageSlug)
		if err != nil {
			return nil, err
		}
		if markdown {
			return markdownResponse(page.Title, page.Content)
		}

		prev, next := Neighbours(page.Siblings, page.ID)
		return html("page", pageView{
			Page:   page,
			Body:   handler.body(ctx, "page", page.ID, page.Content),
			Crumbs: Breadcrumbs(page),
			Prev:   prev,
			Next:   next,
		})
	})
}

func (handler *Handler) articles(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	handler.serve(writer, request, func(ctx context.Context) (*response, error) {
		articles, total, err := handler.reader.Articles(ctx, params.Limit, params.Offset())
		if err != nil {
			return nil, err
		}
		return html("articles", articlesView{Articles: articles, Pager: newPager(params.Page, params.Limit, total)})
	})
}

func (handler *Handler) article(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Article")
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	markdown := wantsMarkdown(request)

	handler.serve(writer, request, func(ctx context.Context) (*response, error) {
		article, err := handler.reader.Article(ctx, id)
		if err != nil {
			return nil, err
		}
		if markdown {
			return markdownResponse(article.Title, article.Content)
		}
		return html("article", articleView{Article: article, Body: handler.body(ctx, "article", article.ID, article.Content)})
	})
}

// # Caching

/*
serve answers from the cache when it can, and otherwise renders through build.

Description: Concurrent misses on the same key share one render through
singleflight. The render runs detached from the first caller's cancellation so
that one disconnect does not fail every waiter. Cache trouble is logged and
degrades to rendering on every request.
*/
func (handler *Handler) serve(writer http.ResponseWriter, request *http.Request, build func(context.Context) (*response, error)) {
	ctx := request.Context()
	logger := ctxutil.GetLoggerOr(ctx, handler.logger)
	key := cacheKey(request)

	cached := false
	if handler.cache != nil {
		generation, err := handler.cache.Generation(ctx)
		if err != nil {
			logger.Warn("site_cache_unavailable", slog.Any("error", err))
		} else {
			key = strconv.FormatInt(generation, 10) + ":" + key
			cached = true

			if hit, ok := handler.lookup(ctx, logger, key); ok {
				write(writer, hit)
				return
			}
		}
	}

	value, err, _ := handler.group.Do(key, func() (any, error) {
		renderCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.GlobalRequestTimeout)
		defer cancel()

		result, err := build(renderCtx)
		if err != nil {
			return nil, err
		}

		if cached {
			handler.store(renderCtx, logger, key, result)
		}
		return result, nil
	})
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	write(writer, value.(*response))
}

func (handler *Handler) lookup(ctx context.Context, logger *slog.Logger, key string) (*response, bool) {
	raw, err := handler.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logger.Warn("site_cache_read_failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}

	var hit response
	if err := json.Unmarshal(raw, &hit); err != nil {
		logger.Warn("site_cache_entry_corrupt", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return &hit, true
}

func (handler *Handler) store(ctx context.Context, logger *slog.Logger, key string, result *response) {
	raw, err := json.Marshal(result)
	if err == nil {
		err = handler.cache.Set(ctx, key, raw, handler.ttl)
	}
	if err != nil {
		logger.Warn("site_cache_write_failed", slog.String("key", key), slog.Any("error", err))
	}
}

// cacheKey keeps only the query parameters that change the output.
func cacheKey(request *http.Request) string {
	query := request.URL.Query()
	return fmt.Sprintf("%s|page=%s|format=%s", request.URL.Path, query.Get("page"), query.Get("format"))
}

// # Rendering Helpers

// body renders a document and logs every block the renderer skipped.
func (handler *Handler) body(ctx context.Context, entity, id string, doc content.Document) template.HTML {
	logger := ctxutil.GetLoggerOr(ctx, handler.logger)
	return content.Render(doc, content.WithWarnings(func(warning content.Warning) {
		logger.Warn("render_block_skipped",
			slog.String("entity_type", entity),
			slog.String("entity_id", id),
			slog.Int("index", warning.Index),
			slog.String("block_id", warning.BlockID),
			slog.String("kind", warning.Kind),
			slog.String("reason", warning.Reason),
		)
	})).HTML()
}

func html(view string, data any) (*response, error) {
	body, err := execute(view, data)
	if err != nil {
		return nil, err
	}
	return &response{ContentType: contentTypeHTML, Body: body}, nil
}

func markdownResponse(title string, doc content.Document) (*response, error) {
	body, err := content.Markdown(doc)
	if err != nil {
		return nil, err
	}

	text := "# " + title + "\n"
	if body != "" {
		text += "\n" + body + "\n"
	}
	return &response{ContentType: contentTypeMarkdown, Body: []byte(text)}, nil
}

func wantsMarkdown(request *http.Request) bool {
	return request.URL.Query().Get("format") == "markdown"
}

func write(writer http.ResponseWriter, result *response) {
	writer.Header().Set(constants.HeaderContentType, result.ContentType)
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(result.Body)
}

// fail renders the error page. Internal details stay in the log.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := ctxutil.WithLogger(request.Context(), ctxutil.GetLoggerOr(request.Context(), handler.logger))
	appError := respond.Classify(request.WithContext(ctx), err)

	status, message := appError.HTTPStatus, appError.Message
	switch {
	case status == http.StatusNotFound:
		message = "This page does not exist or is not published."
	case status >= http.StatusInternalServerError:
		message = "Something went wrong while rendering this page."
	}

	body, renderErr := execute("error", errorView{Status: status, Message: message})
	if renderErr != nil {
		http.Error(writer, message, status)
		return
	}

	writer.Header().Set(constants.HeaderContentType, contentTypeHTML)
	writer.WriteHeader(status)
	_, _ = writer.Write(body)
}
