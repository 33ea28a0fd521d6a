package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ==================== Audit context ====================

type auditContextKey struct{}

// AuditInfo identifies who issued a request.
type AuditInfo struct {
	SellerID  int64
	RequestID string
}

func WithAuditInfo(ctx context.Context, info *AuditInfo) context.Context {
	return context.WithValue(ctx, auditContextKey{}, info)
}

func GetAuditInfo(ctx context.Context) *AuditInfo {
	if ctx == nil {
		return nil
	}
	if info, ok := ctx.Value(auditContextKey{}).(*AuditInfo); ok {
		return info
	}
	return nil
}

// ==================== Gin middleware ====================

// AuditContext puts the request id and, when a valid bearer token is sent,
// the seller id into the request context so the gorm callbacks can log them.
// It never rejects a request.
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		info := &AuditInfo{RequestID: GetRequestID(c)}

		if id := GetSellerID(c); id > 0 {
			info.SellerID = id
		} else if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				if claims, err := ParseToken(parts[1]); err == nil {
					info.SellerID = claims.SellerID
				}
			}
		}

		c.Request = c.Request.WithContext(WithAuditInfo(c.Request.Context(), info))
		c.Next()
	}
}

// ==================== GORM callbacks ====================

// RegisterAuditCallbacks logs every create, update and delete that reaches the store.
func RegisterAuditCallbacks(db *gorm.DB, log *zap.Logger) error {
	if log == nil {
		return nil
	}
	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register("audit:create", auditLogger(log, "create")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("audit:update", auditLogger(log, "update")); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("audit:delete", auditLogger(log, "delete"))
}

func auditLogger(log *zap.Logger, action string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement.Context == nil {
			return
		}
		fields := []zap.Field{
			zap.String("action", action),
			zap.String("table", tx.Statement.Table),
			zap.Int64("rows", tx.RowsAffected),
		}
		if info := GetAuditInfo(tx.Statement.Context); info != nil {
			if info.SellerID > 0 {
				fields = append(fields, zap.Int64("seller_id", info.SellerID))
			}
			if info.RequestID != "" {
				fields = append(fields, zap.String("request_id", info.RequestID))
			}
		}
		log.Debug("store mutation", fields...)
	}
}
