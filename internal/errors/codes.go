package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"  // 로그인 필요
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // 토큰 만료
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // 잘못된 토큰

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"  // 접근 권한 없음
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY" // 관리자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식 (날짜 등)
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // 범위 초과
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 현장 (SITE_) ====================
	SiteNotFound = "SITE_NOT_FOUND" // 현장 없음

	// ==================== 품목 (MATERIAL_) ====================
	MaterialNotFound      = "MATERIAL_NOT_FOUND"       // 품목 없음
	MaterialNotConfigured = "MATERIAL_NOT_CONFIGURED"  // 심볼 매핑 없음
	MaterialAlreadyExists = "MATERIAL_ALREADY_EXISTS"  // 품목 중복

	// ==================== 시세 (MARKET_) ====================
	MarketPriceNotFound  = "MARKET_PRICE_NOT_FOUND"  // 시세 없음
	MarketPriceDuplicate = "MARKET_PRICE_DUPLICATE"  // 같은 날짜/심볼 시세 중복
	MarketInvalidQuote   = "MARKET_INVALID_QUOTE"    // 잘못된 시세 값

	// ==================== 단가 (PRICING_) ====================
	PricingDecisionNotFound = "PRICING_DECISION_NOT_FOUND" // 승인 단가 없음
	PricingApproveFailed    = "PRICING_APPROVE_FAILED"     // 승인 처리 실패

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"  // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"  // 외부 API 오류
)
