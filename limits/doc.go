// Package limits provides the numeric bounds applied to caller input before
// any socket or resolver work happens.
//
//   - MaxPort (65535): ports arrive as plain integers on the C entry points
//     and are range checked here before conversion to uint16.
//   - MaxHostnameLength (253) and MaxLabelLength (63): hostnames longer than
//     DNS allows are refused before a lookup is attempted.
//
// # Validation Functions
//
//	port, err := limits.ValidatePort(p)
//	if err != nil {
//	    return errs.Legacy(err) // -EINVAL
//	}
//
//	if err := limits.ValidateHostname(host); err != nil {
//	    // errors.Is(err, limits.ErrHostnameTooLong)
//	}
package limits
