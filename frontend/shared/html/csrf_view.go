package html

// CSRFFormScript copies the CSRF cookie into a hidden _csrf field of every POST
// form as it is submitted, so forms inside dialogs opened later are covered too.
func CSRFFormScript() string {
	return `<script>
(function () {
  function csrfToken() {
    var match = document.cookie.match(/(?:^|;\s*)X-CSRF-Token=([^;]*)/);
    return match ? decodeURIComponent(match[1]) : "";
  }

  document.addEventListener("submit", function (event) {
    var form = event.target;
    if (!(form instanceof HTMLFormElement)) return;
    if ((form.getAttribute("method") || "GET").toUpperCase() !== "POST") return;
    var token = csrfToken();
    if (!token) return;
    var input = form.querySelector("input[name='_csrf']");
    if (!input) {
      input = document.createElement("input");
      input.type = "hidden";
      input.name = "_csrf";
      form.appendChild(input);
    }
    input.value = token;
  }, true);
})();
</script>`
}
