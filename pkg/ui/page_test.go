package ui_test

const testPage = `<!doctype html>
<html><body>
<header data-header>
  <a id="logo" href="/">Logo</a>
  <button id="menu" data-menu-button aria-controls="nav">Menu</button>
  <nav id="nav" data-nav>
    <a id="link-services" class="nav-link" href="#services">Services</a>
    <a id="link-reviews" class="nav-link" href="#reviews">Reviews</a>
    <a id="link-missing" href="#nowhere">Missing</a>
  </nav>
  <button id="open-request" data-open-modal="request">Request</button>
</header>
<main id="main">
  <section id="hero" class="hero">
    <div class="hero-copy" id="copy">Copy</div>
    <div class="hero-card-glass" id="glass">Glass</div>
    <a id="top" href="#">Top</a>
  </section>
  <section id="services" class="section">
    <div class="card" id="card1">One</div>
    <div class="card" id="card2">Two</div>
  </section>
  <section id="reviews" class="section">
    <div class="review-card" id="review1">Great</div>
  </section>
  <p id="outside">Outside</p>
</main>
<footer id="footer" aria-hidden="false"><a id="footer-link" href="/privacy">Privacy</a></footer>
<div id="toast" data-toast role="status"></div>
<div id="request" data-modal="request" aria-hidden="true">
  <div data-modal-dialog role="dialog">
    <button id="close-x" data-close-modal><span id="close-icon">x</span></button>
    <form id="request-form">
      <input id="name" name="name">
      <div data-error-for="name" id="err-name"></div>
      <input id="phone" name="phone" type="tel">
      <div data-error-for="phone" id="err-phone"></div>
      <textarea id="message" name="message"></textarea>
      <div data-error-for="message" id="err-message"></div>
      <div id="request-form-error" role="alert"></div>
      <button id="submit" type="submit">Send</button>
    </form>
  </div>
</div>
<div id="info" data-modal="info" aria-hidden="true">
  <div data-modal-dialog id="info-dialog"><p>Nothing to focus</p><span data-close-modal id="info-close">close</span></div>
</div>
</body></html>`
