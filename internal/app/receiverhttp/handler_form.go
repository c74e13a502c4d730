package receiverhttp

import "net/http"

// Минимальная форма загрузки; презентация тут намеренно без шаблонов.
const uploadFormHTML = `<!doctype html>
<title>Upload new File</title>
<h1>Upload new File</h1>
<form method=post enctype=multipart/form-data>
  <input type=file name=file multiple>
  <input type=submit value=Upload>
</form>
`

// uploadForm отдаёт HTML-форму для ручной загрузки файлов.
func (s *Server) uploadForm(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(uploadFormHTML))
}
