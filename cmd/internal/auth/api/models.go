package authapi

import v1 "vrme/shared/contracts/auth/v1"

type (
	registerRequest     = v1.RegisterRequest
	loginRequest        = v1.LoginRequest
	loginResponse       = v1.LoginResponse
	accountInfoResponse = v1.AccountInfoResponse
	accountIDRequest    = v1.AccountIDRequest
	accountIDResponse   = v1.AccountIDResponse
	meResponse          = v1.MeResponse
	errorResponse       = v1.ErrorResponse
)
