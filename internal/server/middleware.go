package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/auditcontext"
	"github.com/fixbench/fixbench/internal/companyctx"
	"github.com/gin-gonic/gin"
)

const (
	headerCompanyID = "X-Company-Id"
	headerBranchID  = "X-Branch-Id"
	headerActor     = "X-Actor"

	contextActorKey  = "actor"
	contextBranchKey = "branch_id"
)

// CompanyContext resolves the tenant scope for a request. The company comes
// from the X-Company-Id header, falling back to the configured default for
// single-tenant deployments. The branch header is optional: company-level
// actors see every branch.
func (s *Server) CompanyContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := s.resolveCompanyID(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := companyctx.WithCompanyID(c.Request.Context(), int64(companyID))

		branchID := strings.TrimSpace(c.GetHeader(headerBranchID))
		if branchID != "" {
			parsed, err := snowflake.ParseString(branchID)
			if err != nil || parsed == 0 {
				AbortWithError(c, newValidationError("branch_id", "invalid_branch", "invalid branch header"))
				return
			}
			ctx = companyctx.WithBranchID(ctx, int64(parsed))
			c.Set(contextBranchKey, parsed.String())
		}

		actor := strings.TrimSpace(c.GetHeader(headerActor))
		if actor == "" {
			actor = "system"
		}
		actorType, actorID, err := splitActor(actor)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(contextActorKey, actor)

		ctx = auditcontext.WithActor(ctx, actorType, actorID)
		ctx = auditcontext.WithIPAddress(ctx, c.ClientIP())
		ctx = auditcontext.WithUserAgent(ctx, c.Request.UserAgent())
		if requestID, exists := c.Get("request_id"); exists {
			if id, isString := requestID.(string); isString {
				ctx = auditcontext.WithRequestID(ctx, id)
			}
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) resolveCompanyID(c *gin.Context) (snowflake.ID, bool) {
	raw := strings.TrimSpace(c.GetHeader(headerCompanyID))
	if raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil || parsed == 0 {
			return 0, false
		}
		return parsed, true
	}
	if s.cfg.DefaultCompanyID > 0 {
		return snowflake.ID(s.cfg.DefaultCompanyID), true
	}
	return 0, false
}

// authorize gates a route on the actor's role within the active branch.
func (s *Server) authorize(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetString(contextActorKey)
		if actor == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		branchID := c.GetString(contextBranchKey)
		if err := s.authzSvc.Authorize(c.Request.Context(), actor, branchID, object, action); err != nil {
			AbortWithError(c, err)
			return
		}

		c.Next()
	}
}

func splitActor(actor string) (string, string, error) {
	if actor == "system" {
		return "system", "", nil
	}
	if userID, ok := strings.CutPrefix(actor, "user:"); ok {
		parsed, err := snowflake.ParseString(userID)
		if err != nil || parsed == 0 {
			return "", "", newValidationError("actor", "invalid_actor", "invalid actor header")
		}
		return "user", parsed.String(), nil
	}
	return "", "", newValidationError("actor", "invalid_actor", "invalid actor header")
}
