package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-authgate/internal/app/middleware"
)

// Page rendering is deliberately thin: the pages exist so the gate has
// something to protect, nothing more.

const landingHTML = `<!DOCTYPE html>
<html>
<head><title>go-authgate</title></head>
<body>
  <h1>go-authgate</h1>
  <p><a href="/login">Sign in</a></p>
</body>
</html>`

const loginHTML = `<!DOCTYPE html>
<html>
<head><title>Sign in</title></head>
<body>
  <h1>Sign in</h1>
  <form id="login-form">
    <label>Username <input type="text" name="username" autocomplete="username"></label>
    <label>Password <input type="password" name="password" autocomplete="current-password"></label>
    <button type="submit">Sign in</button>
  </form>
  <p id="login-error"></p>
  <script>
    document.getElementById('login-form').addEventListener('submit', async (e) => {
      e.preventDefault();
      const form = new FormData(e.target);
      const res = await fetch('/api/login', {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({username: form.get('username'), password: form.get('password')})
      });
      const body = await res.json();
      if (body.success) {
        window.location = body.data.role === 'admin' ? '/admin/dashboard' : '/user/dashboard';
      } else {
        document.getElementById('login-error').textContent = body.message;
      }
    });
  </script>
</body>
</html>`

const dashboardHTML = `<!DOCTYPE html>
<html>
<head><title>%s dashboard</title></head>
<body>
  <h1>%s dashboard</h1>
  <p>Signed in as %s.</p>
  <form id="logout-form"><button type="submit">Sign out</button></form>
  <script>
    document.getElementById('logout-form').addEventListener('submit', async (e) => {
      e.preventDefault();
      await fetch('/api/logout', {method: 'POST'});
      window.location = '/login';
    });
  </script>
</body>
</html>`

func landingPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(landingHTML))
}

func loginPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginHTML))
}

func adminDashboardPage(c *gin.Context) {
	renderDashboard(c, "Admin")
}

func userDashboardPage(c *gin.Context) {
	renderDashboard(c, "User")
}

func renderDashboard(c *gin.Context, title string) {
	username := "unknown"
	if user := middleware.GetUserFromContext(c); user != nil {
		username = user.Username
	}
	page := fmt.Sprintf(dashboardHTML, title, title, username)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
