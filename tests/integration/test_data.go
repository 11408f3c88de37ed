package integration

import (
	"fmt"
	"time"
)

// TestAccount generates unique test credentials using a timestamp
func TestAccount(suffix string) (username, email, password string) {
	ts := time.Now().UnixNano()
	username = fmt.Sprintf("user%d%s", ts, suffix)
	email = fmt.Sprintf("test-%d-%s@example.com", ts, suffix)
	password = "TestPassword123!"
	return
}
