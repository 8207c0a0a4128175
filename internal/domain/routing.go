package domain

import "time"

// Area is a protected section of the application a route belongs to.
type Area string

const (
	AreaAdmin     Area = "admin"
	AreaEmployer  Area = "employer"
	AreaCandidate Area = "candidate"
)

// ParseArea normalizes a raw area name.
func ParseArea(raw string) (Area, bool) {
	switch Area(raw) {
	case AreaAdmin:
		return AreaAdmin, true
	case AreaEmployer:
		return AreaEmployer, true
	case AreaCandidate:
		return AreaCandidate, true
	default:
		return "", false
	}
}

// Destination is the routing decision for a (identity, area) pair.
type Destination string

const (
	DestinationAllow           Destination = "allow"
	DestinationLogin           Destination = "login"
	DestinationPublicRoot      Destination = "public_root"
	DestinationCompleteProfile Destination = "complete_profile"
	DestinationPendingApproval Destination = "pending_approval"
)

// ResolveDestination maps (identity, requested area) to a destination.
// Rules are evaluated in order, first match wins:
//
//  1. no identity                                  -> Login
//  2. expired identity                             -> Login (caller clears the session)
//  3. admin area, role != admin                    -> PublicRoot
//  4. employer area:
//     role != employer                             -> PublicRoot
//     status PENDING_PROFILE_COMPLETION            -> CompleteProfile
//     status PENDING_APPROVAL                      -> PendingApproval
//     status ACTIVE                                -> Allow
//     any other or missing status                  -> PublicRoot
//  5. candidate area                               -> Allow (status not meaningful)
//  6. default                                      -> Allow
//
// The employer fallback to PublicRoot on an unrecognized status is a safe
// default, not an error; callers should log it since it can mask a new
// status value introduced backend-side.
func ResolveDestination(identity *Identity, area Area, now time.Time) Destination {
	if identity == nil {
		return DestinationLogin
	}
	if identity.Expired(now) {
		return DestinationLogin
	}

	switch area {
	case AreaAdmin:
		if identity.Role != RoleAdmin {
			return DestinationPublicRoot
		}
	case AreaEmployer:
		if identity.Role != RoleEmployer {
			return DestinationPublicRoot
		}
		switch identity.Status {
		case StatusPendingProfileCompletion:
			return DestinationCompleteProfile
		case StatusPendingApproval:
			return DestinationPendingApproval
		case StatusActive:
			return DestinationAllow
		default:
			return DestinationPublicRoot
		}
	case AreaCandidate:
		return DestinationAllow
	}

	return DestinationAllow
}
