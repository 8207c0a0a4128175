package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
	KeyArea      CtxKey = "Area"
	KeyRequestID CtxKey = "RequestID"
	KeySession   CtxKey = "Session"
)
