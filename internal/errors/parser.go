package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// PostgreSQL SQLSTATE 코드
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 민감한 내부 정보는 숨기되, 사용자가 문제를 해결할 수 있는 정보 제공
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL 에러 (SQLSTATE 기반)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return parseDuplicateKeyError(pqErr.Constraint, context)
		case pgForeignKeyViolation:
			return ErrorInfo{
				Code:    ValidationInvalidID,
				Message: "참조하는 데이터가 존재하지 않습니다",
			}
		case pgNotNullViolation:
			return ErrorInfo{
				Code:    ValidationRequired,
				Message: "필수 항목이 누락되었습니다: " + pqErr.Column,
			}
		case pgCheckViolation:
			return ErrorInfo{
				Code:    ValidationInvalidRange,
				Message: "입력값이 허용 범위를 벗어났습니다",
			}
		}
	}

	// 3. 드라이버를 거치지 않은 에러 문자열 (sqlite 등)
	errStrLower := strings.ToLower(err.Error())
	if strings.Contains(errStrLower, "unique constraint") || strings.Contains(errStrLower, "duplicate key") {
		return parseDuplicateKeyError(errStrLower, context)
	}

	// 4. 네트워크/연결 에러
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "외부 서비스 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	// 5. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalDatabaseError,
		Message: "데이터 처리 중 오류가 발생했습니다",
	}
}

func parseDuplicateKeyError(detail, context string) ErrorInfo {
	if strings.Contains(detail, "idx_market_daily") || context == "market_price" {
		return ErrorInfo{
			Code:    MarketPriceDuplicate,
			Message: "해당 날짜의 시세가 이미 등록되어 있습니다",
		}
	}
	if strings.Contains(detail, "pricing_coefficients") || strings.Contains(detail, "pricing_decisions") || context == "pricing" {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "동시에 저장된 단가 데이터와 충돌했습니다. 다시 시도해주세요",
		}
	}
	if strings.Contains(detail, "symbol_maps") || context == "symbol_map" {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "해당 품목의 심볼 매핑이 이미 존재합니다",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "이미 존재하는 데이터입니다",
	}
}

func getNotFoundMessage(context string) string {
	switch context {
	case "site":
		return "현장을 찾을 수 없습니다"
	case "material":
		return "품목을 찾을 수 없습니다"
	case "market_price":
		return "시세 정보를 찾을 수 없습니다"
	case "decision":
		return "승인 단가를 찾을 수 없습니다"
	default:
		return "요청한 데이터를 찾을 수 없습니다"
	}
}
