package tests

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	. "github.com/trezcool/ratiba/apps/api/echo"
	"github.com/trezcool/ratiba/core/user"
	testutil "github.com/trezcool/ratiba/tests"
)

func Test_userApi_login(t *testing.T) {
	a := setup(t)

	testutil.CreateUser(t, a.usrRepo, "John Smith", "jsmith@test.cd", "Sup3rS3cret!", user.RoleTeacher, "Mathematics", true)
	testutil.CreateUser(t, a.usrRepo, "N Dog", "ndog@test.cd", "Sup3rS3cret!", user.RoleStudent, "Physics", false)

	body := func(email, pwd string) []byte {
		return marchallObj(t, map[string]string{"email": email, "password": pwd})
	}

	tests := []httpTest{
		{
			name: "empty body", body: body("", ""), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown email", body: body("who@test.cd", "Sup3rS3cret!"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: body("jsmith@test.cd", "wrong"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: body("ndog@test.cd", "Sup3rS3cret!"), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			a.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", body("JSmith@test.cd", "Sup3rS3cret!"))
		a.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, body = %s", rec.Code, rec.Body.String())
		}
		var res struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if res.Token == "" {
			t.Error("empty token")
		}

		// the token grants access to authed endpoints
		req, rec = newAuthRequest(http.MethodGet, "/v1/auth/me", res.Token)
		a.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET /v1/auth/me with fresh token: code = %v", rec.Code)
		}
	})
}

func Test_userApi_signup(t *testing.T) {
	a := setup(t)

	testutil.CreateUser(t, a.usrRepo, "John Smith", "jsmith@test.cd", "Sup3rS3cret!", user.RoleTeacher, "Mathematics", true)

	body := func(fields map[string]string) []byte { return marchallObj(t, fields) }

	tests := []httpTest{
		{
			name: "missing fields", body: body(map[string]string{"name": "New Kid"}), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"email":            "this field is required",
				"password":         "password must contain at least 8 characters",
				"password_confirm": "this field is required",
				"subject":          "this field is required",
			}),
		},
		{
			name: "password mismatch",
			body: body(map[string]string{
				"name": "New Kid", "email": "kid@test.cd", "subject": "Physics",
				"password": "Sup3rS3cret!", "password_confirm": "nope",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password_confirm": "password_confirm must be equal to Password"}),
		},
		{
			name: "email taken",
			body: body(map[string]string{
				"name": "New Kid", "email": "jsmith@test.cd", "subject": "Physics",
				"password": "Sup3rS3cret!", "password_confirm": "Sup3rS3cret!",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/signup", tt.body)
			a.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("success forces student role", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/signup", body(map[string]string{
			"name": "New Kid", "email": "kid@test.cd", "subject": "Physics",
			"password": "Sup3rS3cret!", "password_confirm": "Sup3rS3cret!",
		}))
		a.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v, body = %s", rec.Code, rec.Body.String())
		}
		var res struct {
			Token string    `json:"token"`
			User  user.User `json:"user"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if res.Token == "" {
			t.Error("empty token")
		}
		if res.User.Role != user.RoleStudent {
			t.Errorf("role = %v, want %v", res.User.Role, user.RoleStudent)
		}
		if res.User.IsActive == nil || !*res.User.IsActive {
			t.Error("new user is not active")
		}
	})
}

func Test_userApi_me(t *testing.T) {
	a := setup(t)

	student := testutil.CreateUser(t, a.usrRepo, "Hero", "hero@test.cd", "Sup3rS3cret!", user.RoleStudent, "Physics", true)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Get self", token: getToken(t, student), wantData: marchallObj(t, student)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/auth/me", tt.token)
			a.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_tokenValidation(t *testing.T) {
	a := setup(t)

	student := testutil.CreateUser(t, a.usrRepo, "Hero", "hero@test.cd", "Sup3rS3cret!", user.RoleStudent, "Physics", true)
	admin := testutil.CreateUser(t, a.usrRepo, "Admin", "admin@test.cd", "Sup3rS3cret!", user.RoleAdmin, "", true)

	expiredClaims := GetUserClaims(student)
	expiredClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	expiredToken, err := GenerateToken(expiredClaims)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	errInvalidToken := httpErr{Error: "invalid or expired jwt"}
	tests := []httpTest{
		{name: "expired token", path: "/v1/auth/me", token: expiredToken, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errInvalidToken)},
		{name: "garbage token", path: "/v1/auth/me", token: "h3h3.h3h3.h3h3", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errInvalidToken)},
		{name: "fresh token reaches claims-gated endpoint", path: "/v1/auth/me", token: getToken(t, student), wantData: marchallObj(t, student)},
		{name: "fresh admin token reaches admin endpoint", path: "/v1/admin/timetable", token: getToken(t, admin), wantData: []byte(`[]`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			a.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_passwordReset(t *testing.T) {
	a := setup(t)

	usr := testutil.CreateUser(t, a.usrRepo, "Hero", "hero@test.cd", "Sup3rS3cret!", user.RoleStudent, "Physics", true)

	// unknown emails get the same neutral answer
	req, rec := newRequest(http.MethodPost, "/v1/auth/password-reset", marchallObj(t, map[string]string{"email": "who@test.cd"}))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v, body = %s", rec.Code, rec.Body.String())
	}
	if n := len(a.mailMock.Sent()); n != 0 {
		t.Fatalf("sent %d mails for unknown email, want 0", n)
	}

	// known email gets a reset mail
	req, rec = newRequest(http.MethodPost, "/v1/auth/password-reset", marchallObj(t, map[string]string{"email": "hero@test.cd"}))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v, body = %s", rec.Code, rec.Body.String())
	}
	sent := a.mailMock.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(sent))
	}

	re := regexp.MustCompile(`uid=([^&\s]+)&token=([^&\s]+)`)
	m := re.FindStringSubmatch(sent[0].TextContent)
	if m == nil {
		t.Fatalf("no reset link in mail: %s", sent[0].TextContent)
	}
	uid, token := m[1], m[2]

	// bad token is rejected
	req, rec = newRequest(http.MethodPost, "/v1/auth/password-reset-confirm", marchallObj(t, map[string]string{
		"uid": uid, "token": "bad-token", "password": "N3wS3cret!", "password_confirm": "N3wS3cret!",
	}))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad token: code = %v, body = %s", rec.Code, rec.Body.String())
	}

	// valid token resets the password
	req, rec = newRequest(http.MethodPost, "/v1/auth/password-reset-confirm", marchallObj(t, map[string]string{
		"uid": uid, "token": token, "password": "N3wS3cret!", "password_confirm": "N3wS3cret!",
	}))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: code = %v, body = %s", rec.Code, rec.Body.String())
	}

	usr2, err := a.usrRepo.GetUserByID(req.Context(), usr.ID)
	if err != nil {
		t.Fatalf("GetUserByID(): %v", err)
	}
	if err := usr2.CheckPassword("N3wS3cret!"); err != nil {
		t.Errorf("CheckPassword() after reset: %v", err)
	}

	// the used token no longer works
	req, rec = newRequest(http.MethodPost, "/v1/auth/password-reset-confirm", marchallObj(t, map[string]string{
		"uid": uid, "token": token, "password": "An0therS3cret!", "password_confirm": "An0therS3cret!",
	}))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("reused token: code = %v, body = %s", rec.Code, rec.Body.String())
	}
}
