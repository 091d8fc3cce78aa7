package orgchart

import "errors"

var (
	ErrNotFound        = errors.New("orgchart.not_found")
	ErrMemberNotFound  = errors.New("orgchart.member_not_found")
	ErrStorageFailure  = errors.New("orgchart.storage_failure")
	ErrMemberLookup    = errors.New("orgchart.member_lookup_failed")
	ErrMissingTenantID = errors.New("orgchart.missing_association_id")
)
